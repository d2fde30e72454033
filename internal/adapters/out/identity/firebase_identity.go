// internal/adapters/out/identity/firebase_identity.go
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	sessdom "boutique/internal/domain/session"
)

// FirebaseIdentityProvider implements session.IdentityProvider on top of
// Firebase Auth:
//   - MintSessionCookie  -> SessionCookie (exchanges a fresh ID token)
//   - VerifySessionCookie -> VerifySessionCookieAndCheckRevoked
//   - RevokeSessions      -> RevokeRefreshTokens (advances the revocation
//     epoch; cookies minted before it fail the revocation check)
type FirebaseIdentityProvider struct {
	Auth *fbauth.Client
}

func NewFirebaseIdentityProvider(auth *fbauth.Client) *FirebaseIdentityProvider {
	return &FirebaseIdentityProvider{Auth: auth}
}

func (p *FirebaseIdentityProvider) MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	if p == nil || p.Auth == nil {
		return "", errors.New("firebase_identity: auth client is nil")
	}
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return "", errors.New("firebase_identity: idToken is empty")
	}
	return p.Auth.SessionCookie(ctx, idToken, ttl)
}

func (p *FirebaseIdentityProvider) VerifySessionCookie(ctx context.Context, cookie string) (*sessdom.Claims, error) {
	if p == nil || p.Auth == nil {
		return nil, errors.New("firebase_identity: auth client is nil")
	}
	cookie = strings.TrimSpace(cookie)
	if cookie == "" {
		return nil, errors.New("firebase_identity: cookie is empty")
	}

	tok, err := p.Auth.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return nil, err
	}

	claims := &sessdom.Claims{
		UID:      tok.UID,
		IssuedAt: time.Unix(tok.IssuedAt, 0).UTC(),
		Expires:  time.Unix(tok.Expires, 0).UTC(),
	}
	if v, ok := tok.Claims["email"].(string); ok {
		claims.Email = strings.TrimSpace(v)
	}
	// custom claim; secondary signal only, never the sole admin gate
	if v, ok := tok.Claims["admin"].(bool); ok {
		claims.Admin = v
	}
	return claims, nil
}

func (p *FirebaseIdentityProvider) RevokeSessions(ctx context.Context, uid string) error {
	if p == nil || p.Auth == nil {
		return errors.New("firebase_identity: auth client is nil")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return errors.New("firebase_identity: uid is empty")
	}
	return p.Auth.RevokeRefreshTokens(ctx, uid)
}
