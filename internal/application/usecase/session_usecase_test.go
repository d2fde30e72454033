package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessdom "boutique/internal/domain/session"
)

// fakeIdentity models an identity service with a per-user revocation
// epoch: cookies minted before the epoch fail verification even when
// their embedded expiry has not elapsed.
type fakeIdentity struct {
	now     time.Time
	seq     int
	cookies map[string]fakeCookie // cookie value -> record
	revoked map[string]time.Time  // uid -> last revocation instant
}

type fakeCookie struct {
	uid      string
	issuedAt time.Time
	expires  time.Time
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		now:     time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		cookies: make(map[string]fakeCookie),
		revoked: make(map[string]time.Time),
	}
}

func (f *fakeIdentity) MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	if idToken == "bad-token" {
		return "", errors.New("invalid id token")
	}
	f.seq++
	val := fmt.Sprintf("cookie-%d", f.seq)
	f.cookies[val] = fakeCookie{
		uid:      "uid-" + idToken,
		issuedAt: f.now,
		expires:  f.now.Add(ttl),
	}
	return val, nil
}

func (f *fakeIdentity) VerifySessionCookie(ctx context.Context, cookie string) (*sessdom.Claims, error) {
	c, ok := f.cookies[cookie]
	if !ok {
		return nil, errors.New("unknown cookie")
	}
	if f.now.After(c.expires) {
		return nil, errors.New("expired")
	}
	if rev, ok := f.revoked[c.uid]; ok && !c.issuedAt.After(rev) {
		return nil, errors.New("revoked")
	}
	return &sessdom.Claims{UID: c.uid, IssuedAt: c.issuedAt, Expires: c.expires}, nil
}

func (f *fakeIdentity) RevokeSessions(ctx context.Context, uid string) error {
	f.revoked[uid] = f.now
	return nil
}

func TestSessionCreateThenVerify(t *testing.T) {
	f := newFakeIdentity()
	uc := NewSessionUsecase(f)
	ctx := context.Background()

	cookie, err := uc.Create(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, cookie)

	claims, err := uc.Verify(ctx, cookie)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, "uid-alice", claims.UID)
}

func TestSessionCreateRejectsBadToken(t *testing.T) {
	uc := NewSessionUsecase(newFakeIdentity())

	_, err := uc.Create(context.Background(), "bad-token")
	assert.Error(t, err, "mint failure must propagate so the handler can 401")

	_, err = uc.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrSessionInvalidArgument)
}

func TestSessionVerifyIsFailSilent(t *testing.T) {
	f := newFakeIdentity()
	uc := NewSessionUsecase(f)
	ctx := context.Background()

	// empty, garbage and expired all collapse to (nil, nil)
	for _, cookie := range []string{"", "   ", "never-minted"} {
		claims, err := uc.Verify(ctx, cookie)
		assert.NoError(t, err)
		assert.Nil(t, claims)
	}

	cookie, err := uc.Create(ctx, "alice")
	require.NoError(t, err)
	f.now = f.now.Add(sessdom.Lifetime + time.Hour)

	claims, err := uc.Verify(ctx, cookie)
	assert.NoError(t, err)
	assert.Nil(t, claims, "expired cookie must verify as signed-out, not as an error")
}

func TestRevokeAllInvalidatesOlderSessionsOnly(t *testing.T) {
	f := newFakeIdentity()
	uc := NewSessionUsecase(f)
	ctx := context.Background()

	oldCookie, err := uc.Create(ctx, "alice")
	require.NoError(t, err)

	claims, err := uc.Verify(ctx, oldCookie)
	require.NoError(t, err)
	require.NotNil(t, claims, "sanity: cookie valid before revocation")

	require.NoError(t, uc.RevokeAll(ctx, "uid-alice"))

	claims, err = uc.Verify(ctx, oldCookie)
	assert.NoError(t, err)
	assert.Nil(t, claims, "pre-revocation cookie must stop verifying")

	// a session minted after the revocation epoch works again
	f.now = f.now.Add(time.Second)
	freshCookie, err := uc.Create(ctx, "alice")
	require.NoError(t, err)

	claims, err = uc.Verify(ctx, freshCookie)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, "uid-alice", claims.UID)
}

func TestRevokeAllValidatesUID(t *testing.T) {
	uc := NewSessionUsecase(newFakeIdentity())
	assert.ErrorIs(t, uc.RevokeAll(context.Background(), ""), ErrSessionInvalidArgument)
}
