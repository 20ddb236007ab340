package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/guard"
	"taskman/internal/session"
)

func TestCheck_Anonymous(t *testing.T) {
	for _, route := range []guard.Route{guard.TaskList, guard.TaskNew, guard.TaskDetail, guard.TaskEdit} {
		d := guard.Check(nil, route)
		assert.False(t, d.Render, "route %s", route.Name)
		assert.Equal(t, "/login", d.Redirect, "route %s", route.Name)
	}
}

func TestCheck_Authenticated(t *testing.T) {
	alice := &session.Identity{Username: "alice"}
	for _, route := range guard.Table {
		d := guard.Check(alice, route)
		assert.True(t, d.Render, "route %s", route.Name)
		assert.Empty(t, d.Redirect)
	}
}

func TestCheck_PublicRoutes(t *testing.T) {
	for _, route := range []guard.Route{guard.Login, guard.Register, {Name: "help"}} {
		assert.True(t, guard.Check(nil, route).Render, "route %s", route.Name)
	}
}

func TestCheck_ReevaluatedPerNavigation(t *testing.T) {
	var identity *session.Identity
	assert.False(t, guard.Check(identity, guard.TaskList).Render)

	identity = &session.Identity{Username: "alice"}
	assert.True(t, guard.Check(identity, guard.TaskList).Render)

	identity = nil
	assert.False(t, guard.Check(identity, guard.TaskList).Render)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want guard.Route
		vars map[string]string
	}{
		{"/", guard.TaskList, map[string]string{}},
		{"/login", guard.Login, map[string]string{}},
		{"/register", guard.Register, map[string]string{}},
		{"/tasks/new", guard.TaskNew, map[string]string{}},
		{"/tasks/7", guard.TaskDetail, map[string]string{"id": "7"}},
		{"/tasks/42/edit", guard.TaskEdit, map[string]string{"id": "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, vars, err := guard.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, route)
			assert.Equal(t, tt.vars, vars)
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	for _, path := range []string{"", "tasks", "/tasks/abc", "/nope", "/tasks/7/delete"} {
		_, _, err := guard.Resolve(path)
		assert.Error(t, err, "path %q", path)
	}
}
