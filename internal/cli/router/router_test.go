package router

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoadmin/spoadmin/internal/cli/auth"
	"github.com/spoadmin/spoadmin/internal/cli/client"
	"github.com/spoadmin/spoadmin/internal/cli/session"
	"github.com/spoadmin/spoadmin/internal/fakeapi"
	"github.com/spoadmin/spoadmin/internal/models"
)

// fakeSession is a settable session state
type fakeSession struct {
	token     bool
	role      models.Role
	initErr   bool
	initCalls int
}

func (f *fakeSession) IsAuthenticated() bool { return f.token && f.role != "" }
func (f *fakeSession) IsAdmin() bool         { return f.IsAuthenticated() && f.role == models.RoleAdmin }
func (f *fakeSession) IsOperator() bool      { return f.IsAuthenticated() && f.role == models.RoleOperator }
func (f *fakeSession) HasToken() bool        { return f.token }
func (f *fakeSession) HasUser() bool         { return f.role != "" }

func (f *fakeSession) Init(context.Context) {
	f.initCalls++
	if f.initErr {
		f.token = false
		f.role = ""
	}
}

var (
	anonymous = &fakeSession{}
	asAdmin   = &fakeSession{token: true, role: models.RoleAdmin}
	asOp      = &fakeSession{token: true, role: models.RoleOperator}
)

func mustMatch(t *testing.T, path string) Route {
	t.Helper()
	r := Match(path)
	require.False(t, r.IsRedirect(), "path %s should be a page", path)
	return r
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		state State
		want  Decision
	}{
		{"anonymous on login", "/login", anonymous, Allow()},
		{"admin on login", "/login", asAdmin, RedirectTo("/admin")},
		{"operator on login", "/login", asOp, RedirectTo("/operator")},
		{"anonymous on admin page", "/admin/spo", anonymous, RedirectTo("/login")},
		{"anonymous on operator page", "/operator/students", anonymous, RedirectTo("/login")},
		{"admin on admin page", "/admin/spo", asAdmin, Allow()},
		{"operator on admin page", "/admin/operators", asOp, RedirectTo("/operator")},
		{"admin on operator page", "/operator/students", asAdmin, RedirectTo("/admin")},
		{"operator on operator page", "/operator/stats", asOp, Allow()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(mustMatch(t, tt.path), tt.state)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_GuestNeverAllowedWhenAuthenticated(t *testing.T) {
	for _, r := range Routes() {
		if !r.Meta.Guest {
			continue
		}
		for _, s := range []State{asAdmin, asOp} {
			d := Resolve(r, s)
			assert.False(t, d.Allowed())
			assert.NotEqual(t, r.Path, d.RedirectTo)
		}
	}
}

func TestMatch(t *testing.T) {
	assert.Equal(t, "spo-list", Match("/admin/spo").Name)
	assert.Equal(t, "spo-list", Match("/admin/spo/").Name)
	assert.Equal(t, "spo-list", Match("admin/spo?page=2").Name)
	assert.True(t, Match("/").IsRedirect())
	assert.True(t, Match("/does/not/exist").IsRedirect())

	r, ok := Lookup("student-list")
	require.True(t, ok)
	assert.Equal(t, "/operator/students", r.Path)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestRoutes_ProtectedUnlessGuest(t *testing.T) {
	for _, r := range Routes() {
		if r.Meta.Guest {
			assert.False(t, r.Meta.RequiresAuth, r.Path)
			continue
		}
		assert.True(t, r.Meta.RequiresAuth, r.Path)
	}
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		session  *fakeSession
		wantPath string
		wantHops []string
	}{
		{"anonymous to protected page", "/admin/spo", &fakeSession{}, "/login", []string{"/admin/spo", "/login"}},
		{"admin to operator page", "/operator/students", &fakeSession{token: true, role: models.RoleAdmin}, "/admin", []string{"/operator/students", "/admin"}},
		{"operator to admin page", "/admin/quotas", &fakeSession{token: true, role: models.RoleOperator}, "/operator", []string{"/admin/quotas", "/operator"}},
		{"admin to root", "/", &fakeSession{token: true, role: models.RoleAdmin}, "/admin", []string{"/", "/admin"}},
		{"operator to root", "/", &fakeSession{token: true, role: models.RoleOperator}, "/operator", []string{"/", "/operator"}},
		{"anonymous to root", "/", &fakeSession{}, "/login", []string{"/", "/operator", "/login"}},
		{"unknown path", "/nope", &fakeSession{token: true, role: models.RoleAdmin}, "/admin", []string{"/nope", "/", "/admin"}},
		{"admin to login", "/login", &fakeSession{token: true, role: models.RoleAdmin}, "/admin", []string{"/login", "/admin"}},
		{"allowed directly", "/admin/stats", &fakeSession{token: true, role: models.RoleAdmin}, "/admin/stats", []string{"/admin/stats"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := NewNavigator(tt.session, zerolog.Nop())
			result, err := nav.Navigate(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, result.Path())
			assert.Equal(t, tt.wantHops, result.Hops)
			assert.Equal(t, len(tt.wantHops) > 1, result.Redirected())
		})
	}
}

func TestNavigate_InitOnlyWithUnresolvedToken(t *testing.T) {
	resolved := &fakeSession{token: true, role: models.RoleAdmin}
	_, err := NewNavigator(resolved, zerolog.Nop()).Navigate(context.Background(), "/admin")
	require.NoError(t, err)
	assert.Equal(t, 0, resolved.initCalls)

	anon := &fakeSession{}
	_, err = NewNavigator(anon, zerolog.Nop()).Navigate(context.Background(), "/admin")
	require.NoError(t, err)
	assert.Equal(t, 0, anon.initCalls)
}

func TestNavigate_InitFailureIsSwallowed(t *testing.T) {
	stale := &fakeSession{token: true, initErr: true}

	result, err := NewNavigator(stale, zerolog.Nop()).Navigate(context.Background(), "/admin/spo")
	require.NoError(t, err)
	assert.Equal(t, 1, stale.initCalls)
	assert.Equal(t, PathLogin, result.Path())
	assert.False(t, stale.HasToken())
}

// loopSession claims to be authenticated but holds neither role, so the
// admin and operator landing pages bounce between each other
type loopSession struct{}

func (loopSession) IsAuthenticated() bool { return true }
func (loopSession) IsAdmin() bool         { return false }
func (loopSession) IsOperator() bool      { return false }
func (loopSession) HasToken() bool        { return true }
func (loopSession) HasUser() bool         { return true }
func (loopSession) Init(context.Context)  {}

func TestNavigate_RedirectLoop(t *testing.T) {
	_, err := NewNavigator(loopSession{}, zerolog.Nop()).Navigate(context.Background(), "/admin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRedirectLoop))
}

func TestNavigate_WithRealSession(t *testing.T) {
	api := fakeapi.New()
	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	spoID := api.AddSpo("College")
	opID := api.AddUser("op", "op-pass", models.RoleOperator, &spoID)

	tests := []struct {
		name     string
		token    func(t *testing.T) string
		path     string
		wantPath string
	}{
		{
			name:     "no token",
			token:    func(t *testing.T) string { return "" },
			path:     "/operator/students",
			wantPath: "/login",
		},
		{
			name: "valid operator token",
			token: func(t *testing.T) string {
				token, err := api.IssueToken(opID, time.Hour)
				require.NoError(t, err)
				return token
			},
			path:     "/operator/students",
			wantPath: "/operator/students",
		},
		{
			name: "stale token",
			token: func(t *testing.T) string {
				token, err := api.IssueToken(opID, -time.Hour)
				require.NoError(t, err)
				return token
			},
			path:     "/operator/students",
			wantPath: "/login",
		},
		{
			name: "operator to admin page",
			token: func(t *testing.T) string {
				token, err := api.IssueToken(opID, time.Hour)
				require.NoError(t, err)
				return token
			},
			path:     "/admin/spo",
			wantPath: "/operator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := auth.NewMemoryStore()
			if token := tt.token(t); token != "" {
				require.NoError(t, store.SaveToken(auth.TokenKey, token))
			}

			c := client.New(srv.URL + "/api")
			s := session.New(c, store, auth.TokenKey)
			c.SetTokenSource(s)

			result, err := NewNavigator(s, zerolog.Nop()).Navigate(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, result.Path())
		})
	}
}
