package gate

import (
	"strings"

	"nestquest/internal/models"
)

// NavItem is one dashboard navigation entry.
type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// The navigation tables are the single canonical mapping from role to
// visible dashboard entries. Every screen consumes this table instead of
// re-deriving role checks. Order is fixed and stable.
var (
	commonNav = []NavItem{
		{Path: "/dashboard/profile", Label: "My Profile"},
	}

	userNav = []NavItem{
		{Path: "/dashboard/wishlist", Label: "Wishlist"},
		{Path: "/dashboard/property-bought", Label: "Property Bought"},
		{Path: "/dashboard/my-reviews", Label: "My Reviews"},
	}

	agentNav = []NavItem{
		{Path: "/dashboard/add-property", Label: "Add Property"},
		{Path: "/dashboard/my-properties", Label: "My Properties"},
		{Path: "/dashboard/sold-properties", Label: "Sold Properties"},
		{Path: "/dashboard/requested-properties", Label: "Requested Properties"},
	}

	adminNav = []NavItem{
		{Path: "/dashboard/manage-properties", Label: "Manage Properties"},
		{Path: "/dashboard/manage-users", Label: "Manage Users"},
		{Path: "/dashboard/manage-reviews", Label: "Manage Reviews"},
	}
)

// VisibleNav returns the ordered navigation list for a role. Pure and
// total: an unknown or empty role gets the user table. The agent and
// admin lists are supersets of the user list plus their own role-specific
// entries.
func VisibleNav(role models.Role) []NavItem {
	nav := make([]NavItem, 0, len(commonNav)+len(userNav)+len(agentNav))
	nav = append(nav, commonNav...)
	nav = append(nav, userNav...)
	switch role {
	case models.RoleAgent:
		nav = append(nav, agentNav...)
	case models.RoleAdmin:
		nav = append(nav, adminNav...)
	}
	return nav
}

// Allowed reports whether the role may visit the dashboard path. Paths
// outside the dashboard are open to everyone.
func Allowed(role models.Role, path string) bool {
	if !strings.HasPrefix(path, "/dashboard") {
		return true
	}
	if path == "/dashboard" || path == "/dashboard/" {
		return true
	}
	for _, item := range VisibleNav(role) {
		if path == item.Path || strings.HasPrefix(path, item.Path+"/") {
			return true
		}
	}
	return false
}
