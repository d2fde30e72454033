// internal/application/usecase/session_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	sessdom "boutique/internal/domain/session"
)

var (
	ErrSessionInvalidArgument = errors.New("session_usecase: invalid argument")
)

// SessionCookieName is the cookie carrying the session credential.
// The name is load-bearing: hosting CDNs only forward this exact cookie
// to the origin.
const SessionCookieName = "__session"

// SessionUsecase coordinates session credential lifecycle against the
// identity provider.
type SessionUsecase struct {
	provider sessdom.IdentityProvider
}

func NewSessionUsecase(provider sessdom.IdentityProvider) *SessionUsecase {
	return &SessionUsecase{provider: provider}
}

// Create exchanges a fresh ID token for a long-lived session credential.
// Provider errors propagate so the handler can answer 401.
func (uc *SessionUsecase) Create(ctx context.Context, idToken string) (string, error) {
	if uc == nil || uc.provider == nil {
		return "", ErrSessionInvalidArgument
	}
	tok := strings.TrimSpace(idToken)
	if tok == "" {
		return "", ErrSessionInvalidArgument
	}
	return uc.provider.MintSessionCookie(ctx, tok, sessdom.Lifetime)
}

// Verify checks a session credential and returns its claims.
//
// Fail-closed and fail-silent: ANY failure (empty cookie, malformed,
// expired, revoked, provider down) yields (nil, nil). Callers treat nil
// claims as "not signed in" and never learn why.
func (uc *SessionUsecase) Verify(ctx context.Context, cookie string) (*sessdom.Claims, error) {
	if uc == nil || uc.provider == nil {
		return nil, nil
	}
	c := strings.TrimSpace(cookie)
	if c == "" {
		return nil, nil
	}

	claims, err := uc.provider.VerifySessionCookie(ctx, c)
	if err != nil {
		log.Printf("[SessionUsecase] verify failed: %v", err)
		return nil, nil
	}
	return claims, nil
}

// RevokeAll advances the revocation epoch for uid: every previously issued
// credential, on every device, stops verifying.
func (uc *SessionUsecase) RevokeAll(ctx context.Context, uid string) error {
	if uc == nil || uc.provider == nil {
		return ErrSessionInvalidArgument
	}
	u := strings.TrimSpace(uid)
	if u == "" {
		return ErrSessionInvalidArgument
	}
	return uc.provider.RevokeSessions(ctx, u)
}
