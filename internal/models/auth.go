package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access token payload issued by the identity service.
// Only the subject and role drive authorization here; email and name are
// carried for logging.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the identity passed to lifecycle operations.
func (c *JWTClaims) Actor() Actor {
	if c == nil {
		return Actor{}
	}
	return Actor{ID: c.UserID, Role: c.Role}
}
