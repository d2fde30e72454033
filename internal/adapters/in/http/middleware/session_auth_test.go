package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "boutique/internal/application/usecase"
	sessdom "boutique/internal/domain/session"
	userdom "boutique/internal/domain/user"
)

type stubIdentity struct {
	valid map[string]*sessdom.Claims
}

func (s *stubIdentity) MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	return "", errors.New("not used")
}

func (s *stubIdentity) VerifySessionCookie(ctx context.Context, cookie string) (*sessdom.Claims, error) {
	if c, ok := s.valid[cookie]; ok {
		return c, nil
	}
	return nil, errors.New("invalid")
}

func (s *stubIdentity) RevokeSessions(ctx context.Context, uid string) error { return nil }

type stubUserRepo struct {
	profiles map[string]*userdom.Profile
}

func (r *stubUserRepo) GetByUID(ctx context.Context, uid string) (*userdom.Profile, error) {
	if p, ok := r.profiles[uid]; ok {
		return p, nil
	}
	return nil, userdom.ErrNotFound
}

func (r *stubUserRepo) Create(ctx context.Context, p *userdom.Profile) error { return nil }
func (r *stubUserRepo) Save(ctx context.Context, p *userdom.Profile) error   { return nil }
func (r *stubUserRepo) Delete(ctx context.Context, uid string) error         { return nil }

func okHandler(t *testing.T, sawUID *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := CurrentUID(r); ok {
			*sawUID = uid
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionAuthInjectsClaims(t *testing.T) {
	ident := &stubIdentity{valid: map[string]*sessdom.Claims{
		"good": {UID: "u1", Email: "u1@example.com"},
	}}
	m := &SessionAuth{Sessions: usecase.NewSessionUsecase(ident)}

	var sawUID string
	h := m.Handler(okHandler(t, &sawUID))

	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.AddCookie(&http.Cookie{Name: usecase.SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", sawUID)
}

func TestSessionAuthAnswersGeneric401(t *testing.T) {
	ident := &stubIdentity{valid: map[string]*sessdom.Claims{}}
	m := &SessionAuth{Sessions: usecase.NewSessionUsecase(ident)}

	var sawUID string
	h := m.Handler(okHandler(t, &sawUID))

	// no cookie, and bad cookie: byte-identical responses
	bodies := make([]string, 0, 2)
	for _, withCookie := range []bool{false, true} {
		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		if withCookie {
			r.AddCookie(&http.Cookie{Name: usecase.SessionCookieName, Value: "forged"})
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1], "401 must not reveal the failure reason")
	assert.Empty(t, sawUID)
}

func TestAdminOnlyGatesOnProfileRole(t *testing.T) {
	ident := &stubIdentity{valid: map[string]*sessdom.Claims{
		"admin-cookie":    {UID: "admin-uid"},
		"customer-cookie": {UID: "customer-uid"},
		"ghost-cookie":    {UID: "ghost-uid"},
	}}
	users := &stubUserRepo{profiles: map[string]*userdom.Profile{
		"admin-uid":    {UID: "admin-uid", Role: userdom.RoleAdmin},
		"customer-uid": {UID: "customer-uid", Role: userdom.RoleCustomer},
	}}

	auth := &SessionAuth{Sessions: usecase.NewSessionUsecase(ident)}
	admin := &AdminOnly{Accounts: usecase.NewAccountUsecase(users)}
	h := auth.Handler(admin.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	do := func(cookie string) int {
		r := httptest.NewRequest(http.MethodPost, "/products", nil)
		if cookie != "" {
			r.AddCookie(&http.Cookie{Name: usecase.SessionCookieName, Value: cookie})
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("admin-cookie"))
	assert.Equal(t, http.StatusForbidden, do("customer-cookie"), "valid session, wrong role")
	assert.Equal(t, http.StatusForbidden, do("ghost-cookie"), "missing profile must not pass")
	assert.Equal(t, http.StatusUnauthorized, do(""), "no session beats role check")
}
