package driven

import "github.com/custodia-labs/campus-assist/internal/core/domain"

// AuthAdapter handles API token operations.
// Tokens are issued by the asset management backend; GenerateToken exists for
// operators and tests.
type AuthAdapter interface {
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
