package models

import (
	"errors"
	"fmt"
)

// Role is the account role tag. It is always passed explicitly through the
// auth call chain; there is no process-wide "current role".
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleSeller   Role = "Seller"
	RoleCustomer Role = "Customer"
)

// ErrInvalidRole is returned when a role name is not part of the enumeration.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole validates a client-supplied role name.
func ParseRole(name string) (Role, error) {
	switch Role(name) {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return Role(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, name)
	}
}

func (r Role) String() string { return string(r) }
