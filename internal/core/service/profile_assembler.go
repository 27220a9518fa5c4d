package service

import (
	"context"
	"fmt"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/ports"
)

// ProfileAssembler is the single place where a profile and its token are
// built, shared by login, registration and profile refresh.
type ProfileAssembler struct {
	resolver ports.PolicyResolver
	issuer   ports.TokenIssuer
}

func NewProfileAssembler(resolver ports.PolicyResolver, issuer ports.TokenIssuer) *ProfileAssembler {
	return &ProfileAssembler{resolver: resolver, issuer: issuer}
}

func (a *ProfileAssembler) Assemble(ctx context.Context, identity *domain.Identity) (domain.Profile, error) {
	policies, err := a.resolver.Resolve(ctx, identity)
	if err != nil {
		return domain.Profile{}, err
	}

	token, err := a.issuer.Issue(identity, policies)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("assemble profile: %w", err)
	}

	return domain.Profile{
		FullName: identity.FullName,
		Email:    identity.Email,
		Username: identity.Username,
		Token:    token,
	}, nil
}
