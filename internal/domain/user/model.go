package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAthlete           Role = "athlete"
	RoleAgency            Role = "agency"
	RoleParent            Role = "parent"
	RoleComplianceOfficer Role = "compliance_officer"
	RoleAdmin             Role = "admin"
)

var AllRoles = map[Role]struct{}{
	RoleAthlete:           {},
	RoleAgency:            {},
	RoleParent:            {},
	RoleComplianceOfficer: {},
	RoleAdmin:             {},
}

// ParseRole accepts a role claim; empty claims default to athlete.
func ParseRole(raw string) (Role, bool) {
	value := Role(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return RoleAthlete, true
	}
	if _, ok := AllRoles[value]; !ok {
		return "", false
	}
	return value, true
}

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID   string
	Email    string
	FullName string
	Role     Role
}

func (p Principal) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// User mirrors the auth server account locally so other tables can reference it.
type User struct {
	ID        string
	Email     string
	FullName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
