package domain

import "strings"

// Role — роль вызывающего.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// ParseRole — разбирает роль из строки (регистр и пробелы не важны).
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleStaff:
		return RoleStaff, true
	default:
		return "", false
	}
}

// Caller — уже аутентифицированный вызывающий (кто и в какой роли).
type Caller struct {
	Identity string
	Role     Role
}
