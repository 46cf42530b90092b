package domain

// TokenClaims represents the JWT token payload accepted by the API
type TokenClaims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// AuthContext contains the authenticated caller for request context
type AuthContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// NewAuthContext builds an AuthContext from validated claims
func NewAuthContext(claims *TokenClaims) *AuthContext {
	if claims == nil {
		return nil
	}
	return &AuthContext{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}
}
