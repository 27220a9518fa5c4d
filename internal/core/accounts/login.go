package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/pipeline"
	"github.com/coursehub/account-service/internal/core/ports"
)

type loginHandler struct {
	identities ports.IdentityStore
	profiles   ports.ProfileAssembler
	log        zerolog.Logger
}

// Handle distinguishes an unknown email from a wrong password in its failure
// reason.
func (h *loginHandler) Handle(ctx context.Context, cmd LoginCommand) (pipeline.Result[domain.Profile], error) {
	identity, err := h.identities.FindByEmail(ctx, cmd.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		h.log.Info().Str("email", cmd.Email).Msg("login for unknown email")
		return pipeline.Failure[domain.Profile](domain.ReasonUserNotFound), nil
	}
	if err != nil {
		return pipeline.Result[domain.Profile]{}, fmt.Errorf("login: find identity: %w", err)
	}

	ok, err := h.identities.VerifyPassword(ctx, identity, cmd.Password)
	if err != nil {
		return pipeline.Result[domain.Profile]{}, fmt.Errorf("login: verify password: %w", err)
	}
	if !ok {
		h.log.Info().Str("user_id", identity.ID).Msg("login with invalid password")
		return pipeline.Failure[domain.Profile](domain.ReasonInvalidCredentials), nil
	}

	profile, err := h.profiles.Assemble(ctx, identity)
	if err != nil {
		return pipeline.Result[domain.Profile]{}, fmt.Errorf("login: %w", err)
	}

	h.log.Info().Str("user_id", identity.ID).Msg("user logged in")
	return pipeline.Success(profile), nil
}
