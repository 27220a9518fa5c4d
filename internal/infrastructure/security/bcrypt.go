package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/ports"
)

// MinPasswordLength is the shortest password the identity provider accepts.
const MinPasswordLength = 6

// PasswordPolicy lists the character classes a password must contain on top
// of the minimum length.
type PasswordPolicy struct {
	RequireDigit  bool
	RequireUpper  bool
	RequireLower  bool
	RequireSymbol bool
}

// BcryptHasher implements ports.PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost   int
	policy PasswordPolicy
}

// NewBcryptHasher clamps cost into the range bcrypt accepts.
func NewBcryptHasher(cost int, policy PasswordPolicy) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost, policy: policy}
}

func (h *BcryptHasher) Check(password string) []string {
	var violations []string
	if len([]rune(password)) < MinPasswordLength {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}

	var digit, upper, lower, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if h.policy.RequireDigit && !digit {
		violations = append(violations, "password must contain a digit")
	}
	if h.policy.RequireUpper && !upper {
		violations = append(violations, "password must contain an uppercase letter")
	}
	if h.policy.RequireLower && !lower {
		violations = append(violations, "password must contain a lowercase letter")
	}
	if h.policy.RequireSymbol && !symbol {
		violations = append(violations, "password must contain a symbol")
	}
	return violations
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", domain.ErrIdentityRejected, err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashAccepted runs the policy check before hashing. Policy violations are
// returned wrapped in domain.ErrIdentityRejected.
func HashAccepted(h ports.PasswordHasher, password string) (string, error) {
	if violations := h.Check(password); len(violations) > 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrIdentityRejected, strings.Join(violations, "; "))
	}
	return h.Hash(password)
}
