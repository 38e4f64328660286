// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account by the
// host platform.
type UserRole string

const (
	// Unrestricted system access
	RoleGlobalAdmin UserRole = "global_admin"

	// Manages sites and their content
	RoleSiteAdmin UserRole = "site_admin"

	// Edits any resource
	RoleEditor UserRole = "editor"

	// Reviews and publishes resources
	RoleReviewer UserRole = "reviewer"

	// Creates own resources
	RoleAuthor UserRole = "author"

	// Reads everything, writes nothing
	RoleResearcher UserRole = "researcher"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level() && r.level() > 0
}

// CanViewPrivate reports whether the role may see private resources and values.
func (r UserRole) CanViewPrivate() bool {
	return r.AtLeast(RoleResearcher)
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale leaves room for intermediate roles
	switch r {
	case RoleGlobalAdmin:
		return 60
	case RoleSiteAdmin:
		return 50
	case RoleEditor:
		return 40
	case RoleReviewer:
		return 30
	case RoleAuthor:
		return 20
	case RoleResearcher:
		return 10
	default:
		return 0
	}
}
