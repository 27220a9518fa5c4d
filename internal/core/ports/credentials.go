package ports

import (
	"context"

	"github.com/coursehub/account-service/internal/core/domain"
)

// PolicyResolver flattens an identity's roles into the policies they grant.
type PolicyResolver interface {
	Resolve(ctx context.Context, identity *domain.Identity) (domain.PolicySet, error)
}

// TokenIssuer signs bearer tokens carrying identity and policy claims.
type TokenIssuer interface {
	Issue(identity *domain.Identity, policies domain.PolicySet) (string, error)
}

// ProfileAssembler produces the caller-facing profile, token included.
type ProfileAssembler interface {
	Assemble(ctx context.Context, identity *domain.Identity) (domain.Profile, error)
}
