package domain

import "errors"

// Principal is the authenticated caller as asserted by the identity provider's token.
type Principal struct {
	ID      string
	Email   string
	Society string
	Role    Role
}

// Role represents a member's access level within a society
type Role string

const (
	// RoleAdmin manages the society: layouts, bills, catalog
	RoleAdmin Role = "admin"

	// RoleTreasurer records vouchers and flat payments
	RoleTreasurer Role = "treasurer"

	// RoleMember can only view statements and reports
	RoleMember Role = "member"
)

var roleRank = map[Role]int{
	RoleMember:    1,
	RoleTreasurer: 2,
	RoleAdmin:     3,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Allows reports whether r grants at least the access of min.
func (r Role) Allows(min Role) bool {
	return r.IsValid() && roleRank[r] >= roleRank[min]
}

// CanRecord checks if the role can record vouchers and payments
func (r Role) CanRecord() bool {
	return r.Allows(RoleTreasurer)
}

// CanManageSociety checks if the role can change layouts and bills
func (r Role) CanManageSociety() bool {
	return r.Allows(RoleAdmin)
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
	ErrForeignSociety   = errors.New("principal does not belong to this society")
)
