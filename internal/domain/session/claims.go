// internal/domain/session/claims.go
package session

import (
	"context"
	"time"
)

// Lifetime is the fixed session-cookie lifetime. Contract element: 5 days,
// carried as Max-Age=432000 on the cookie.
const Lifetime = 5 * 24 * time.Hour

// Claims is the verified content of a session credential. It is not a stored
// entity; it exists only as the output of a successful verification.
type Claims struct {
	UID      string    `json:"uid"`
	Email    string    `json:"email,omitempty"`
	Admin    bool      `json:"admin"`
	IssuedAt time.Time `json:"issuedAt"`
	Expires  time.Time `json:"expires"`
}

// IdentityProvider is the port to the external identity service.
//
// Verification semantics:
//   - VerifySessionCookie must fail for credentials issued before the user's
//     last revocation event, even if their embedded expiry has not elapsed.
//   - The Admin flag in returned Claims is a secondary signal only (custom
//     claim); callers must re-check the profile record for authorization.
type IdentityProvider interface {
	// MintSessionCookie exchanges a short-lived identity token for an opaque
	// session credential with the given ttl. Errors when the token is
	// malformed or expired.
	MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error)

	// VerifySessionCookie verifies the credential cryptographically and
	// against the revocation epoch.
	VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error)

	// RevokeSessions advances the user's revocation epoch, invalidating
	// every previously issued credential on every device.
	RevokeSessions(ctx context.Context, uid string) error
}
