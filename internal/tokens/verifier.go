package tokens

import (
	"context"

	"github.com/fritterhq/fritter-services/internal/config"
	"github.com/fritterhq/fritter-services/pkg/middleware"
)

// Verifier adapts access-token parsing to the middleware's Verifier interface.
type Verifier struct {
	cfg *config.Config
}

func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{cfg: cfg}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Actor, error) {
	userID, username, err := ParseAccessToken(v.cfg, raw)
	if err != nil {
		return middleware.Actor{}, err
	}
	return middleware.Actor{UserID: userID, Username: username}, nil
}
