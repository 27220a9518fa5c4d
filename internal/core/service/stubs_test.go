package service

import (
	"context"
	"sync"

	"github.com/coursehub/account-service/internal/core/domain"
)

// stubIdentityStore serves role assignments from a map keyed by identity ID.
type stubIdentityStore struct {
	mu      sync.Mutex
	roles   map[string][]string
	rolesFn func(identity *domain.Identity) ([]domain.Role, error)
}

func (s *stubIdentityStore) FindByEmail(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubIdentityStore) FindByEmailOrUsername(context.Context, string, string) (*domain.Identity, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubIdentityStore) Create(context.Context, *domain.Identity, string) error {
	return nil
}

func (s *stubIdentityStore) VerifyPassword(context.Context, *domain.Identity, string) (bool, error) {
	return false, nil
}

func (s *stubIdentityStore) RolesOf(_ context.Context, identity *domain.Identity) ([]domain.Role, error) {
	if s.rolesFn != nil {
		return s.rolesFn(identity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Role
	for _, name := range s.roles[identity.ID] {
		out = append(out, domain.Role{Name: name})
	}
	return out, nil
}

type stubPolicyStore struct {
	policies map[string][]string
	err      error
	calls    int
}

func (s *stubPolicyStore) PoliciesOf(_ context.Context, role string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.policies[role], nil
}

func catalogueStore() *stubPolicyStore {
	m := make(map[string][]string)
	for _, r := range domain.DefaultRoles() {
		m[r.Name] = r.Policies
	}
	m["EMPTY"] = nil
	return &stubPolicyStore{policies: m}
}
