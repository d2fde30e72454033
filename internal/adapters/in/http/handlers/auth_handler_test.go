package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "boutique/internal/application/usecase"
	sessdom "boutique/internal/domain/session"
	userdom "boutique/internal/domain/user"
)

type stubIdentity struct {
	minted  map[string]string          // idToken -> cookie
	valid   map[string]*sessdom.Claims // cookie -> claims
	revoked []string
}

func newStubIdentity() *stubIdentity {
	return &stubIdentity{
		minted: make(map[string]string),
		valid:  make(map[string]*sessdom.Claims),
	}
}

func (s *stubIdentity) MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	if idToken == "bad" {
		return "", errors.New("invalid id token")
	}
	cookie := "cookie-for-" + idToken
	s.minted[idToken] = cookie
	s.valid[cookie] = &sessdom.Claims{UID: "uid-" + idToken, Email: idToken + "@example.com"}
	return cookie, nil
}

func (s *stubIdentity) VerifySessionCookie(ctx context.Context, cookie string) (*sessdom.Claims, error) {
	if c, ok := s.valid[cookie]; ok {
		return c, nil
	}
	return nil, errors.New("invalid")
}

func (s *stubIdentity) RevokeSessions(ctx context.Context, uid string) error {
	s.revoked = append(s.revoked, uid)
	for k, c := range s.valid {
		if c.UID == uid {
			delete(s.valid, k)
		}
	}
	return nil
}

type memUserRepo struct {
	profiles map[string]*userdom.Profile
	creates  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{profiles: make(map[string]*userdom.Profile)}
}

func (r *memUserRepo) GetByUID(ctx context.Context, uid string) (*userdom.Profile, error) {
	if p, ok := r.profiles[uid]; ok {
		return p, nil
	}
	return nil, userdom.ErrNotFound
}

func (r *memUserRepo) Create(ctx context.Context, p *userdom.Profile) error {
	r.creates++
	r.profiles[p.UID] = p
	return nil
}

func (r *memUserRepo) Save(ctx context.Context, p *userdom.Profile) error {
	r.profiles[p.UID] = p
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, uid string) error {
	delete(r.profiles, uid)
	return nil
}

func newAuthHandler(ident *stubIdentity, users *memUserRepo, secure bool) http.Handler {
	return NewAuthHandler(
		usecase.NewSessionUsecase(ident),
		usecase.NewAccountUsecase(users),
		secure,
	)
}

func findSessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == usecase.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestCreateSessionSetsContractCookie(t *testing.T) {
	ident := newStubIdentity()
	users := newMemUserRepo()
	h := newAuthHandler(ident, users, true)

	r := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"idToken":"alice"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	c := findSessionCookie(t, w)
	require.NotNil(t, c, "__session cookie must be set")
	assert.Equal(t, "cookie-for-alice", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 432000, c.MaxAge, "5-day lifetime")
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	// first sign-in creates a customer profile
	require.Equal(t, 1, users.creates)
	p := users.profiles["uid-alice"]
	require.NotNil(t, p)
	assert.Equal(t, userdom.RoleCustomer, p.Role)
}

func TestCreateSessionRejectsBadToken(t *testing.T) {
	h := newAuthHandler(newStubIdentity(), newMemUserRepo(), false)

	for _, body := range []string{`{"idToken":"bad"}`, `{}`, `not-json`} {
		r := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "body %q", body)
		assert.Nil(t, findSessionCookie(t, w))
	}
}

func TestVerifyReportsClaimsAndRole(t *testing.T) {
	ident := newStubIdentity()
	users := newMemUserRepo()
	users.profiles["uid-alice"] = &userdom.Profile{UID: "uid-alice", Role: userdom.RoleAdmin}
	_, err := usecase.NewSessionUsecase(ident).Create(context.Background(), "alice")
	require.NoError(t, err)

	h := newAuthHandler(ident, users, false)

	r := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	r.AddCookie(&http.Cookie{Name: usecase.SessionCookieName, Value: "cookie-for-alice"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"uid-alice","email":"alice@example.com","admin":true}`, w.Body.String())
}

func TestVerifyWithoutValidSessionIs401(t *testing.T) {
	h := newAuthHandler(newStubIdentity(), newMemUserRepo(), false)

	r := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	r.AddCookie(&http.Cookie{Name: usecase.SessionCookieName, Value: "forged"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutAlwaysAnswers200AndClearsCookie(t *testing.T) {
	ident := newStubIdentity()
	_, err := usecase.NewSessionUsecase(ident).Create(context.Background(), "alice")
	require.NoError(t, err)
	h := newAuthHandler(ident, newMemUserRepo(), false)

	// with a valid cookie: revokes every session for the uid
	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.AddCookie(&http.Cookie{Name: usecase.SessionCookieName, Value: "cookie-for-alice"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, []string{"uid-alice"}, ident.revoked)

	c := findSessionCookie(t, w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge, "clears the cookie")

	// without any cookie: still 200, nothing revoked further
	r = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, ident.revoked, 1)
	assert.NotNil(t, findSessionCookie(t, w))
}
