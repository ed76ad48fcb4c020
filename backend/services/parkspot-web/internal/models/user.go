package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoleAdmin marks administrators.
const RoleAdmin = "ROLE_ADMIN"

// User is the current user object returned by the auth endpoints.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles,omitempty"`
}

// IsAdmin reports whether any role is the admin role.
func (u User) IsAdmin() bool {
	return HasAdminRole(u.Roles)
}

// HasAdminRole checks a role list case-insensitively, with or without the ROLE_ prefix.
func HasAdminRole(roles []string) bool {
	for _, r := range roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == RoleAdmin || r == "ADMIN" {
			return true
		}
	}
	return false
}

// AuditLogEntry is an admin-visible record of a state-changing action.
type AuditLogEntry struct {
	ID              int64    `json:"id"`
	EntityName      string   `json:"entityName"`
	EntityID        *int64   `json:"entityId"`
	Action          string   `json:"action"`
	Username        string   `json:"username"`
	ChangeTimestamp DateTime `json:"changeTimestamp"`
	Details         string   `json:"details"`
}

// AdminStats aggregates the dashboard counters.
type AdminStats struct {
	Users        int64
	Revenue      decimal.Decimal
	ParkingSpots int64
	Bookings     int64
}
