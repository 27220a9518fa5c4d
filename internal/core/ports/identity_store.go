package ports

import (
	"context"

	"github.com/coursehub/account-service/internal/core/domain"
)

// IdentityStore is the external identity provider: account records, their
// credentials and their role assignments.
type IdentityStore interface {
	// FindByEmail returns domain.ErrUserNotFound when no account uses email.
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// FindByEmailOrUsername returns the first account matching either key,
	// or domain.ErrUserNotFound.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.Identity, error)
	// Create stores identity with a hash of rawPassword in a single atomic
	// write. A password the provider refuses yields an error wrapping
	// domain.ErrIdentityRejected; a uniqueness collision yields domain.ErrUserExists.
	Create(ctx context.Context, identity *domain.Identity, rawPassword string) error
	VerifyPassword(ctx context.Context, identity *domain.Identity, rawPassword string) (bool, error)
	// RolesOf returns the roles currently assigned to identity.
	RolesOf(ctx context.Context, identity *domain.Identity) ([]domain.Role, error)
}
