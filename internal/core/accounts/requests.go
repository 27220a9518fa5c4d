package accounts

import (
	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/pipeline"
)

const (
	KindLogin       pipeline.Kind = "accounts.login"
	KindRegister    pipeline.Kind = "accounts.register"
	KindCurrentUser pipeline.Kind = "accounts.current_user"
)

// Kinds lists every request variant the accounts dispatcher must serve.
var Kinds = []pipeline.Kind{KindLogin, KindRegister, KindCurrentUser}

// LoginCommand authenticates with email and password.
type LoginCommand struct {
	pipeline.Returns[domain.Profile]
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (LoginCommand) Kind() pipeline.Kind { return KindLogin }

// RegisterCommand creates a new account.
type RegisterCommand struct {
	pipeline.Returns[domain.Profile]
	FullName string `json:"full_name" validate:"notblank"`
	Username string `json:"username"  validate:"notblank"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	Degree   string `json:"degree"    validate:"notblank"`
}

func (RegisterCommand) Kind() pipeline.Kind { return KindRegister }

// GetCurrentUserQuery re-issues the profile of an already authenticated
// caller. It performs no credential check of its own.
type GetCurrentUserQuery struct {
	pipeline.Returns[domain.Profile]
	Email string `json:"email"`
}

func (GetCurrentUserQuery) Kind() pipeline.Kind { return KindCurrentUser }
