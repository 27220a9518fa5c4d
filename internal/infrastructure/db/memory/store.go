package memory

import (
	"context"
	"sync"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/ports"
	"github.com/coursehub/account-service/internal/infrastructure/security"
)

// Store keeps identities and the role catalogue in process memory. It serves
// as identity store, policy store and role catalog for local runs and tests.
type Store struct {
	mu sync.RWMutex

	hasher ports.PasswordHasher

	identitiesByID map[string]domain.Identity
	idByEmail      map[string]string
	idByUsername   map[string]string
	policiesByRole map[string][]string
}

func NewStore(hasher ports.PasswordHasher) *Store {
	return &Store{
		hasher:         hasher,
		identitiesByID: make(map[string]domain.Identity),
		idByEmail:      make(map[string]string),
		idByUsername:   make(map[string]string),
		policiesByRole: make(map[string][]string),
	}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByEmail[domain.NormalizeKey(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.copyOf(id), nil
}

func (s *Store) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.idByEmail[domain.NormalizeKey(email)]; ok {
		return s.copyOf(id), nil
	}
	if id, ok := s.idByUsername[domain.NormalizeKey(username)]; ok {
		return s.copyOf(id), nil
	}
	return nil, domain.ErrUserNotFound
}

// Create hashes the password before taking the lock; the uniqueness check
// and insert happen under a single write lock.
func (s *Store) Create(ctx context.Context, identity *domain.Identity, rawPassword string) error {
	hash, err := security.HashAccepted(s.hasher, rawPassword)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emailKey := domain.NormalizeKey(identity.Email)
	userKey := domain.NormalizeKey(identity.Username)
	if _, taken := s.idByEmail[emailKey]; taken {
		return domain.ErrUserExists
	}
	if _, taken := s.idByUsername[userKey]; taken {
		return domain.ErrUserExists
	}
	if _, taken := s.identitiesByID[identity.ID]; taken {
		return domain.ErrUserExists
	}

	identity.PasswordHash = hash
	stored := *identity
	stored.Roles = append([]string(nil), identity.Roles...)
	s.identitiesByID[identity.ID] = stored
	s.idByEmail[emailKey] = identity.ID
	s.idByUsername[userKey] = identity.ID
	return nil
}

func (s *Store) VerifyPassword(_ context.Context, identity *domain.Identity, rawPassword string) (bool, error) {
	s.mu.RLock()
	stored, ok := s.identitiesByID[identity.ID]
	s.mu.RUnlock()
	if !ok {
		return false, domain.ErrUserNotFound
	}
	return s.hasher.Verify(stored.PasswordHash, rawPassword), nil
}

// RolesOf reads the current assignment rather than the snapshot carried by
// identity.
func (s *Store) RolesOf(ctx context.Context, identity *domain.Identity) ([]domain.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.identitiesByID[identity.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	roles := make([]domain.Role, 0, len(stored.Roles))
	for _, name := range stored.Roles {
		roles = append(roles, domain.Role{Name: name})
	}
	return roles, nil
}

// AssignRoles replaces the role assignment of the identity with the given id.
func (s *Store) AssignRoles(_ context.Context, id string, roles ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.identitiesByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.Roles = append([]string(nil), roles...)
	s.identitiesByID[id] = stored
	return nil
}

func (s *Store) PoliciesOf(ctx context.Context, role string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.policiesByRole[role]...), nil
}

// SeedRoles upserts each role definition.
func (s *Store) SeedRoles(_ context.Context, roles []domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range roles {
		s.policiesByRole[r.Name] = append([]string(nil), r.Policies...)
	}
	return nil
}

func (s *Store) copyOf(id string) *domain.Identity {
	stored := s.identitiesByID[id]
	stored.Roles = append([]string(nil), stored.Roles...)
	return &stored
}
