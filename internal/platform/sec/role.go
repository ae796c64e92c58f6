// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to a curator account.
type UserRole string

const (
	// Unrestricted access, including label and category administration.
	RoleAdmin UserRole = "admin"

	// Can create, edit, publish and delete collections and their stories.
	RoleCurator UserRole = "curator"

	// Can browse the admin surface without writing.
	RoleReadOnly UserRole = "readonly"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleCurator:
		return 30
	case RoleReadOnly:
		return 20
	default:
		return 0
	}
}
