package ports

import (
	"context"

	"github.com/coursehub/account-service/internal/core/domain"
)

// PolicyStore maps roles to the policies they grant. Unknown roles grant
// nothing and are not an error.
type PolicyStore interface {
	PoliciesOf(ctx context.Context, role string) ([]string, error)
}

// RoleCatalog provisions role definitions.
type RoleCatalog interface {
	SeedRoles(ctx context.Context, roles []domain.Role) error
}
