// Package auth implements the credential store and token service: a static
// user directory with salted password hashes, stateless signed session
// tokens, and role-based permission checks.
//
// Tokens are self-contained: verification never consults the directory.
package auth

import (
	"github.com/campusmind/advising-backend/internal/domain"
)

// roleRank maps roles onto the fixed authorization ordering. Unknown roles
// (including guest) rank 0 and therefore fail every permission check.
var roleRank = map[domain.Role]int{
	domain.RoleStudent: 1,
	domain.RoleStaff:   2,
	domain.RoleFaculty: 3,
	domain.RoleAdmin:   4,
}

// CheckPermission reports whether the identity's role ranks at or above the
// required role. The ordering is student < staff < faculty < admin.
func CheckPermission(id domain.Identity, required domain.Role) bool {
	return roleRank[id.Role] >= roleRank[required]
}
