package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/pipeline"
	"github.com/coursehub/account-service/internal/core/ports"
)

type currentUserHandler struct {
	identities ports.IdentityStore
	profiles   ports.ProfileAssembler
}

func (h *currentUserHandler) Handle(ctx context.Context, q GetCurrentUserQuery) (pipeline.Result[domain.Profile], error) {
	identity, err := h.identities.FindByEmail(ctx, q.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return pipeline.Failure[domain.Profile](domain.ReasonUserNotFound), nil
	}
	if err != nil {
		return pipeline.Result[domain.Profile]{}, fmt.Errorf("current user: find identity: %w", err)
	}

	profile, err := h.profiles.Assemble(ctx, identity)
	if err != nil {
		return pipeline.Result[domain.Profile]{}, fmt.Errorf("current user: %w", err)
	}
	return pipeline.Success(profile), nil
}
