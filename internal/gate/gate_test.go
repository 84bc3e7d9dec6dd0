package gate

import (
	"testing"

	"nestquest/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestVisibleNavUserRole(t *testing.T) {
	nav := VisibleNav(models.RoleUser)

	paths := navPaths(nav)
	assert.Equal(t, []string{
		"/dashboard/profile",
		"/dashboard/wishlist",
		"/dashboard/property-bought",
		"/dashboard/my-reviews",
	}, paths)
}

func TestVisibleNavAgentContainsEveryUserEntry(t *testing.T) {
	userPaths := navPaths(VisibleNav(models.RoleUser))
	agentPaths := navPaths(VisibleNav(models.RoleAgent))

	for _, p := range userPaths {
		assert.Contains(t, agentPaths, p)
	}
	assert.Contains(t, agentPaths, "/dashboard/add-property")
	assert.Contains(t, agentPaths, "/dashboard/my-properties")
	assert.Contains(t, agentPaths, "/dashboard/sold-properties")
	assert.Contains(t, agentPaths, "/dashboard/requested-properties")
}

func TestVisibleNavAdminContainsEveryUserEntry(t *testing.T) {
	userPaths := navPaths(VisibleNav(models.RoleUser))
	adminPaths := navPaths(VisibleNav(models.RoleAdmin))

	for _, p := range userPaths {
		assert.Contains(t, adminPaths, p)
	}
	assert.Contains(t, adminPaths, "/dashboard/manage-properties")
	assert.Contains(t, adminPaths, "/dashboard/manage-users")
	assert.Contains(t, adminPaths, "/dashboard/manage-reviews")
}

func TestVisibleNavUnknownRoleFallsBackToUser(t *testing.T) {
	assert.Equal(t, VisibleNav(models.RoleUser), VisibleNav(models.Role("moderator")))
	assert.Equal(t, VisibleNav(models.RoleUser), VisibleNav(models.Role("")))
}

func TestVisibleNavOrderIsStable(t *testing.T) {
	first := VisibleNav(models.RoleAgent)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, VisibleNav(models.RoleAgent))
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
		path string
		want bool
	}{
		{"non-dashboard path open to anyone", models.RoleUser, "/properties/123", true},
		{"dashboard root open to any role", models.RoleUser, "/dashboard", true},
		{"user may visit wishlist", models.RoleUser, "/dashboard/wishlist", true},
		{"user may not visit admin section", models.RoleUser, "/dashboard/manage-users", false},
		{"user may not visit agent section", models.RoleUser, "/dashboard/add-property", false},
		{"agent may visit own section", models.RoleAgent, "/dashboard/my-properties", true},
		{"agent keeps user sections", models.RoleAgent, "/dashboard/wishlist", true},
		{"agent may not visit admin section", models.RoleAgent, "/dashboard/manage-properties", false},
		{"admin may visit admin section", models.RoleAdmin, "/dashboard/manage-reviews", true},
		{"subpath of visible entry allowed", models.RoleAdmin, "/dashboard/manage-users/42", true},
		{"unknown dashboard section denied", models.RoleAdmin, "/dashboard/secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.path))
		})
	}
}

func navPaths(items []NavItem) []string {
	paths := make([]string, 0, len(items))
	for _, item := range items {
		paths = append(paths, item.Path)
	}
	return paths
}
