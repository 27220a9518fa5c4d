package service

import (
	"context"
	"fmt"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/ports"
)

// PolicyResolver computes the policies an identity holds through its roles.
type PolicyResolver struct {
	identities ports.IdentityStore
	policies   ports.PolicyStore
}

func NewPolicyResolver(identities ports.IdentityStore, policies ports.PolicyStore) *PolicyResolver {
	return &PolicyResolver{identities: identities, policies: policies}
}

// Resolve returns the deduplicated union of the policies granted by every
// role assigned to identity. An identity without roles resolves to an empty set.
func (r *PolicyResolver) Resolve(ctx context.Context, identity *domain.Identity) (domain.PolicySet, error) {
	roles, err := r.identities.RolesOf(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolve policies: roles of %s: %w", identity.ID, err)
	}

	set := domain.NewPolicySet()
	for _, role := range roles {
		names, err := r.policies.PoliciesOf(ctx, role.Name)
		if err != nil {
			return nil, fmt.Errorf("resolve policies: role %s: %w", role.Name, err)
		}
		set.Add(names...)
	}
	return set, nil
}
