// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Account Roles

// Role represents the authorization level granted to an account.
// The string values match the account_type column.
type Role string

const (
	// Full back-office access
	RoleAdmin Role = "Admin"

	// Staff with inventory management access
	RoleEmployee Role = "Employee"

	// Default role for self-registered visitors
	RoleClient Role = "Client"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() > 0 && r.level() >= target.level()
}

// In reports whether the role is one of the allowed roles.
func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleEmployee:
		return 20
	case RoleClient:
		return 10
	default:
		return 0
	}
}
