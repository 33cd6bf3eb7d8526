package access

import (
	"testing"

	"skill_console/internal/config"
	"skill_console/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() *Policy {
	return NewPolicy(config.AccessConfig{
		LandingPaths: map[string]string{"hod": "/hod/skill-matrix", "employee": "/my-skills"},
		FallbackPath: "/",
	}, DefaultRoutes())
}

func session(role model.Role) *model.Session {
	return &model.Session{SubjectID: "1", Email: "x@example.com", Role: role}
}

func TestIsRouteAllowed(t *testing.T) {
	adminHR := model.NewRoleSet(model.RoleAdmin, model.RoleHR)

	assert.False(t, IsRouteAllowed(session(model.RoleHOD), adminHR))
	assert.True(t, IsRouteAllowed(session(model.RoleHR), adminHR))
	assert.True(t, IsRouteAllowed(session(model.RoleHOD), model.NewRoleSet()), "empty set admits everyone")
	assert.True(t, IsRouteAllowed(nil, model.NewRoleSet()))
	assert.False(t, IsRouteAllowed(nil, adminHR))
	assert.False(t, IsRouteAllowed(session(model.RoleNone), adminHR))
}

func TestRoleParsingIsExact(t *testing.T) {
	assert.Equal(t, model.RoleHR, model.ParseRole(" hr "))
	assert.Equal(t, model.RoleHOD, model.ParseRole("Hod"))
	assert.Equal(t, model.RoleNone, model.ParseRole("HRD"), "no substring matching")

	hrd := &model.Session{Role: model.ParseRole("HRD")}
	assert.False(t, IsRouteAllowed(hrd, model.NewRoleSet(model.RoleHR)))
}

func TestRedirectTarget(t *testing.T) {
	p := testPolicy()

	hod := p.RedirectTarget(session(model.RoleHOD))
	generic := p.RedirectTarget(session(model.RoleTrainer))

	assert.Equal(t, "/hod/skill-matrix", hod)
	assert.Equal(t, "/", generic)
	assert.NotEqual(t, generic, hod)
	assert.Equal(t, "/my-skills", p.RedirectTarget(session(model.RoleEmployee)))
	assert.Equal(t, "/", p.RedirectTarget(nil))
}

func TestCheck(t *testing.T) {
	p := testPolicy()

	cases := []struct {
		name     string
		session  *model.Session
		path     string
		allowed  bool
		redirect string
	}{
		{"anonymous to login", nil, "/login", true, ""},
		{"anonymous to users", nil, "/users", false, "/login"},
		{"admin to audit logs", session(model.RoleAdmin), "/audit-logs", true, ""},
		{"hr to audit logs", session(model.RoleHR), "/audit-logs", false, "/"},
		{"hod to users", session(model.RoleHOD), "/users", false, "/hod/skill-matrix"},
		{"hod to nested matrix", session(model.RoleHOD), "/skill-matrix/42?print=1", true, ""},
		{"trainer to attendance", session(model.RoleTrainer), "/attendance/", true, ""},
		{"employee to trainings", session(model.RoleEmployee), "/trainings", false, "/my-skills"},
		{"prefix is not a segment match", session(model.RoleHOD), "/users-archive", true, ""},
		{"root for any session", session(model.RoleEmployee), "/", true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := p.Check(tc.session, tc.path)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.redirect, d.Redirect)
		})
	}
}

func TestNavigation(t *testing.T) {
	p := testPolicy()

	assert.Empty(t, p.Navigation(nil))

	keys := func(items []NavItem) []string {
		out := make([]string, 0, len(items))
		for _, i := range items {
			out = append(out, i.Key)
		}
		return out
	}

	admin := keys(p.Navigation(session(model.RoleAdmin)))
	assert.Contains(t, admin, "audit-logs")
	assert.NotContains(t, admin, "hod-matrix")

	hod := keys(p.Navigation(session(model.RoleHOD)))
	assert.Contains(t, hod, "hod-matrix")
	assert.Contains(t, hod, "skill-gap")
	assert.NotContains(t, hod, "users")
	assert.Contains(t, hod, "org-skill-matrix")
	assert.True(t, p.Check(session(model.RoleHOD), "/org-skill-matrix").Allowed, "page matches the org matrix API")

	// 菜单可见性与路由判定一致
	for _, item := range NavigationItems() {
		for _, role := range model.AllRoles() {
			s := session(role)
			visible := false
			for _, v := range p.Navigation(s) {
				if v.Key == item.Key {
					visible = true
				}
			}
			assert.Equal(t, visible, p.Check(s, item.Path).Allowed, "%s as %s", item.Path, role)
		}
	}
}

func TestReload(t *testing.T) {
	p := testPolicy()
	p.Reload(config.AccessConfig{LandingPaths: map[string]string{"trainer": "/trainings", "bogus": "/x"}})

	assert.Equal(t, "/trainings", p.RedirectTarget(session(model.RoleTrainer)))
	assert.Equal(t, "/", p.RedirectTarget(session(model.RoleHOD)), "old landing paths are replaced")

	_, ok := p.Lookup("/nowhere")
	require.False(t, ok)
}
