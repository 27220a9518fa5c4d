package redis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/account-service/internal/core/domain"
)

func TestPolicyStore_Key(t *testing.T) {
	s := NewPolicyStore(nil)
	assert.Equal(t, "policies:role:ADMIN", s.key(domain.RoleAdmin))
}

func TestPolicyStore_SeedAndRead(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	store := NewPolicyStore(client)
	require.NoError(t, store.SeedRoles(ctx, []domain.Role{{Name: "EDITOR", Policies: []string{"A", "B", "C"}}}))
	require.NoError(t, store.SeedRoles(ctx, []domain.Role{{Name: "EDITOR", Policies: []string{"A"}}}))

	policies, err := store.PoliciesOf(ctx, "EDITOR")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, policies)

	policies, err = store.PoliciesOf(ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.Empty(t, policies)
}
