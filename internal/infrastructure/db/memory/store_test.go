package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/infrastructure/security"
)

func newStore() *Store {
	return NewStore(security.NewBcryptHasher(bcrypt.MinCost, security.PasswordPolicy{}))
}

func TestStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	in := &domain.Identity{ID: "u-1", Email: "Ana@Example.com", Username: "ana", Roles: []string{domain.RoleClient}}
	require.NoError(t, s.Create(ctx, in, "secret1"))
	assert.NotEmpty(t, in.PasswordHash)

	got, err := s.FindByEmail(ctx, "  ana@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "Ana@Example.com", got.Email)

	got, err = s.FindByEmailOrUsername(ctx, "other@example.com", "ANA")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	_, err = s.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_CreateRejectsCaseInsensitiveDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	require.NoError(t, s.Create(ctx, &domain.Identity{ID: "u-1", Email: "a@x.io", Username: "ana"}, "secret1"))

	err := s.Create(ctx, &domain.Identity{ID: "u-2", Email: "A@X.IO", Username: "bob"}, "secret1")
	assert.ErrorIs(t, err, domain.ErrUserExists)

	err = s.Create(ctx, &domain.Identity{ID: "u-3", Email: "b@x.io", Username: "Ana"}, "secret1")
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestStore_CreateRejectsWeakPassword(t *testing.T) {
	s := NewStore(security.NewBcryptHasher(bcrypt.MinCost, security.PasswordPolicy{RequireDigit: true}))

	err := s.Create(context.Background(), &domain.Identity{ID: "u-1", Email: "a@x.io", Username: "ana"}, "abcdefg")
	require.ErrorIs(t, err, domain.ErrIdentityRejected)

	_, err = s.FindByEmail(context.Background(), "a@x.io")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_ConcurrentCreateKeepsOneWinner(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := &domain.Identity{ID: string(rune('a' + i)), Email: "same@x.io", Username: string(rune('a' + i))}
			errs[i] = s.Create(ctx, id, "secret1")
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrUserExists)
	}
	assert.Equal(t, 1, ok)
}

func TestStore_VerifyPassword(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	in := &domain.Identity{ID: "u-1", Email: "a@x.io", Username: "ana"}
	require.NoError(t, s.Create(ctx, in, "secret1"))

	ok, err := s.VerifyPassword(ctx, in, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.VerifyPassword(ctx, in, "wrong-one")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.VerifyPassword(ctx, &domain.Identity{ID: "ghost"}, "secret1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_RolesAndPolicies(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	require.NoError(t, s.SeedRoles(ctx, domain.DefaultRoles()))

	in := &domain.Identity{ID: "u-1", Email: "a@x.io", Username: "ana"}
	require.NoError(t, s.Create(ctx, in, "secret1"))

	roles, err := s.RolesOf(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, roles)

	require.NoError(t, s.AssignRoles(ctx, "u-1", domain.RoleClient))
	roles, err = s.RolesOf(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{{Name: domain.RoleClient}}, roles)

	policies, err := s.PoliciesOf(ctx, domain.RoleClient)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		domain.PolicyCourseRead, domain.PolicyInstructorRead, domain.PolicyCommentRead, domain.PolicyCommentCreate,
	}, policies)

	policies, err = s.PoliciesOf(ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.Empty(t, policies)

	assert.ErrorIs(t, s.AssignRoles(ctx, "ghost", domain.RoleAdmin), domain.ErrUserNotFound)
}
