package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/pipeline"
	"github.com/coursehub/account-service/internal/core/ports"
)

type registerHandler struct {
	identities   ports.IdentityStore
	profiles     ports.ProfileAssembler
	defaultRoles []string
	now          func() time.Time
	log          zerolog.Logger
}

func (h *registerHandler) Handle(ctx context.Context, cmd RegisterCommand) (pipeline.Result[domain.Profile], error) {
	reason, err := h.collision(ctx, cmd.Email, cmd.Username)
	if err != nil {
		return pipeline.Result[domain.Profile]{}, err
	}
	if reason != "" {
		return pipeline.Failure[domain.Profile](reason), nil
	}

	// Nothing has been written yet; a cancelled caller leaves no trace.
	if err := ctx.Err(); err != nil {
		return pipeline.Result[domain.Profile]{}, err
	}

	now := h.now().UTC()
	identity := &domain.Identity{
		ID:         uuid.NewString(),
		FullName:   strings.TrimSpace(cmd.FullName),
		Username:   strings.TrimSpace(cmd.Username),
		Email:      strings.TrimSpace(cmd.Email),
		Occupation: strings.TrimSpace(cmd.Degree),
		Roles:      append([]string(nil), h.defaultRoles...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = h.identities.Create(ctx, identity, cmd.Password)
	switch {
	case errors.Is(err, domain.ErrUserExists):
		// Lost a race with a concurrent registration; report the field that collided.
		reason, lookupErr := h.collision(ctx, cmd.Email, cmd.Username)
		if lookupErr != nil {
			return pipeline.Result[domain.Profile]{}, lookupErr
		}
		if reason == "" {
			reason = domain.ReasonRegistrationFailed
		}
		return pipeline.Failure[domain.Profile](reason), nil
	case errors.Is(err, domain.ErrIdentityRejected):
		h.log.Info().Err(err).Str("username", identity.Username).Msg("identity provider rejected registration")
		return pipeline.Failure[domain.Profile](domain.ReasonRegistrationFailed), nil
	case err != nil:
		return pipeline.Result[domain.Profile]{}, fmt.Errorf("register: create identity: %w", err)
	}

	profile, err := h.profiles.Assemble(ctx, identity)
	if err != nil {
		return pipeline.Result[domain.Profile]{}, fmt.Errorf("register: %w", err)
	}

	h.log.Info().Str("user_id", identity.ID).Str("username", identity.Username).Msg("user registered")
	return pipeline.Success(profile), nil
}

// collision returns the failure reason when email or username is already in
// use. Email wins when both are taken.
func (h *registerHandler) collision(ctx context.Context, email, username string) (string, error) {
	existing, err := h.identities.FindByEmailOrUsername(ctx, email, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("register: uniqueness check: %w", err)
	}
	if domain.NormalizeKey(existing.Email) == domain.NormalizeKey(email) {
		return domain.ReasonEmailTaken, nil
	}
	return domain.ReasonUsernameTaken, nil
}
