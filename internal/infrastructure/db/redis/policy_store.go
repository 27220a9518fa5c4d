package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/coursehub/account-service/internal/core/domain"
)

// PolicyStore keeps each role's policies in a Redis set.
// Key format: policies:role:<name>
type PolicyStore struct {
	client *redis.Client
}

func NewPolicyStore(client *redis.Client) *PolicyStore {
	return &PolicyStore{client: client}
}

// PoliciesOf returns the members of the role's set. An unknown role is an
// empty set.
func (s *PolicyStore) PoliciesOf(ctx context.Context, role string) ([]string, error) {
	policies, err := s.client.SMembers(ctx, s.key(role)).Result()
	if err != nil {
		return nil, fmt.Errorf("policies of %s: %w", role, err)
	}
	return policies, nil
}

// SeedRoles replaces each role's set in one transaction.
func (s *PolicyStore) SeedRoles(ctx context.Context, roles []domain.Role) error {
	if len(roles) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, r := range roles {
			key := s.key(r.Name)
			pipe.Del(ctx, key)
			if len(r.Policies) == 0 {
				continue
			}
			members := make([]any, len(r.Policies))
			for i, p := range r.Policies {
				members[i] = p
			}
			pipe.SAdd(ctx, key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}

func (s *PolicyStore) key(role string) string {
	return fmt.Sprintf("policies:role:%s", role)
}
