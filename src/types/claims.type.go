package types

import "github.com/golang-jwt/jwt/v4"

// Claims carried by the bearer tokens issued by the identity service.
// Subject holds the numeric user id.
type Claims struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) IsStaff() bool {
	return c.Role == ROLE_ADMIN || c.Role == ROLE_MANAGER
}
