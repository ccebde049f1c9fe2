package accounts

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts/middleware/tokenware"
)

// NewGate builds the authorization gate for protected routes: extract the
// token, verify it, confirm the subject still exists, and thread the user
// identifier into the request context.
func NewGate(service *AccountService, users Users, cfg Config) fiber.Handler {
	return tokenware.New(tokenware.Config{
		TokenLookup: cfg.GetTokenLookup(),
		Validate: func(raw string) (string, error) {
			claims, err := service.TokenCodec().Validate(raw)
			if err != nil {
				return "", err
			}
			return claims.UserID(), nil
		},
		ResolveSubject: func(ctx context.Context, subject string) error {
			_, err := users.GetByID(ctx, subject)
			return err
		},
		ContextEnricher: WithUserID,
	})
}
