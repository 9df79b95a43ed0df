package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

var (
	adminID = &domain.Identity{Username: "admin", Role: domain.RoleAdmin, Authorities: []string{"ROLE_ADMIN"}}
	userID  = &domain.Identity{Username: "user", Role: domain.RoleUser, Authorities: []string{"ROLE_USER"}}
)

func TestPolicy_DefaultRulesFirstMatchWins(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		method, path string
		wantRule     string
		wantAccess   Access
	}{
		{http.MethodPost, "/auth/login", "auth", AccessPublic},
		{http.MethodPost, "/auth/register", "auth", AccessPublic},
		{http.MethodGet, "/auth/health", "auth", AccessPublic},
		{http.MethodGet, "/auth/me", "default", AccessAuthenticated},
		{http.MethodGet, "/swagger/index.html", "docs", AccessPublic},
		{http.MethodGet, "/health", "health", AccessPublic},
		{http.MethodGet, "/health/ready", "health", AccessPublic},
		{http.MethodGet, "/metrics", "metrics", AccessPublic},
		{http.MethodGet, "/videos/import", "video-import", AccessRole},
		{http.MethodPost, "/videos/import", "video-import", AccessRole},
		{http.MethodPut, "/admin/users/bob/role", "admin", AccessRole},
		{http.MethodGet, "/videos", "videos", AccessAuthenticated},
		{http.MethodGet, "/videos/stats", "videos", AccessAuthenticated},
		{http.MethodGet, "/anything/else", "default", AccessAuthenticated},
		{http.MethodGet, "/healthz", "default", AccessAuthenticated},
	}
	for _, tc := range cases {
		r := p.Match(tc.method, tc.path)
		if r.Name != tc.wantRule || r.Access != tc.wantAccess {
			t.Errorf("%s %s: got rule %q (%s), want %q (%s)", tc.method, tc.path, r.Name, r.Access, tc.wantRule, tc.wantAccess)
		}
	}
}

func TestPolicy_DotSegmentsNeverPublic(t *testing.T) {
	p := DefaultPolicy()

	for _, path := range []string{"/swagger/../videos/import", "/health/./x", "/swagger//x"} {
		if r := p.Match(http.MethodGet, path); r.Access == AccessPublic {
			t.Errorf("%s: expected non-public rule, got %q", path, r.Name)
		}
	}
}

func TestPolicy_MethodScopedRule(t *testing.T) {
	p := NewPolicy(
		Rule{Name: "read", Method: http.MethodGet, Patterns: []string{"/catalog/**"}, Access: AccessPublic},
		Rule{Name: "write", Patterns: []string{"/catalog/**"}, Access: AccessRole, Role: domain.RoleAdmin},
	)

	if r := p.Match(http.MethodGet, "/catalog/x"); r.Name != "read" {
		t.Errorf("GET: got %q", r.Name)
	}
	if r := p.Match(http.MethodPost, "/catalog/x"); r.Name != "write" {
		t.Errorf("POST: got %q", r.Name)
	}
}

func TestPolicy_Decide(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		name string
		path string
		id   *domain.Identity
		want error
	}{
		{"public anonymous", "/auth/login", nil, nil},
		{"admin path anonymous", "/videos/import", nil, domain.ErrUnauthorized},
		{"admin path as user", "/videos/import", userID, domain.ErrForbidden},
		{"admin path as admin", "/videos/import", adminID, nil},
		{"authenticated anonymous", "/videos", nil, domain.ErrUnauthorized},
		{"authenticated as user", "/videos", userID, nil},
		{"default anonymous", "/unknown", nil, domain.ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := p.Decide(http.MethodGet, tc.path, tc.id); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPolicy_PublicPatterns(t *testing.T) {
	got := DefaultPolicy().PublicPatterns()
	want := []string{"/auth/login", "/auth/register", "/auth/health", "/swagger/**", "/health", "/health/**", "/metrics"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPathMatcher(t *testing.T) {
	m := NewPathMatcher([]string{" /auth/login ", "", "/swagger/**"})

	cases := map[string]bool{
		"/auth/login":         true,
		"/auth/login/x":       false,
		"/swagger":            true,
		"/swagger/":           true,
		"/swagger/index.html": true,
		"/swaggerx":           false,
		"/swagger/../videos":  false,
		"/videos":             false,
	}
	for path, want := range cases {
		if got := m.Match(path); got != want {
			t.Errorf("Match(%q) = %v, want %v", path, got, want)
		}
	}
}

func runAuthorize(t *testing.T, method, path string, id *domain.Identity) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	if id != nil {
		req = req.WithContext(domain.WithIdentity(req.Context(), id))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authorize(DefaultPolicy(), zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthorize_UnauthorizedSetsChallenge(t *testing.T) {
	rec, called := runAuthorize(t, http.MethodGet, "/videos/import", nil)
	if called {
		t.Fatal("handler must not run")
	}
	if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer")
	}
}

func TestAuthorize_ForbiddenDoesNotCallHandler(t *testing.T) {
	_, called := runAuthorize(t, http.MethodGet, "/videos/import", userID)
	if called {
		t.Fatal("handler must not run for a USER on an admin path")
	}
}

func TestAuthorize_Allows(t *testing.T) {
	rec, called := runAuthorize(t, http.MethodGet, "/videos/import", adminID)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected admin to pass, called=%v code=%d", called, rec.Code)
	}

	rec, called = runAuthorize(t, http.MethodGet, "/health", nil)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected public path to pass, called=%v code=%d", called, rec.Code)
	}
}
