package app

import (
	"context"
	"fmt"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/token"
)

// TokenValidator check that token belongs to userID
type TokenValidator interface {
	Validate(ctx context.Context, userID, token string) error
}

type jwtValidator struct {
	enabled bool
}

// NewJWTValidator JWT validation against the shared secret, enabled=false accepts every token
func NewJWTValidator(enabled bool) TokenValidator {
	return &jwtValidator{enabled: enabled}
}

func (v *jwtValidator) Validate(_ context.Context, userID, tokenStr string) error {
	if !v.enabled {
		return nil
	}
	if tokenStr == "" {
		return fmt.Errorf("%w: missing token", domain.ErrInvalidToken)
	}

	claims, err := token.ParseJWT(tokenStr)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.MemberID != userID {
		return fmt.Errorf("%w: token issued for another user", domain.ErrInvalidToken)
	}
	return nil
}
