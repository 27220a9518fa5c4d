package accounts

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/pipeline"
	"github.com/coursehub/account-service/internal/core/ports"
)

// Config carries the collaborators of the accounts module.
type Config struct {
	Identities ports.IdentityStore
	Profiles   ports.ProfileAssembler
	// DefaultRoles are granted to every newly registered identity.
	DefaultRoles []string
	Observer     pipeline.Observer
	Behaviors    []pipeline.Behavior
	Logger       zerolog.Logger
	// Now overrides the clock used for identity timestamps.
	Now func() time.Time
}

// Service exposes the accounts operations over a validated dispatcher.
type Service struct {
	dispatcher *pipeline.Dispatcher
}

// New registers the login, register and current user handlers together with
// their validators and builds the dispatcher. It fails if any operation is
// left without a handler.
func New(cfg Config) (*Service, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger.With().Str("component", "accounts").Logger()

	reg := pipeline.NewRegistry()

	login := &loginHandler{identities: cfg.Identities, profiles: cfg.Profiles, log: log}
	pipeline.Handle(reg, login.Handle)
	reg.AddValidator(KindLogin, newLoginValidator())

	register := &registerHandler{
		identities:   cfg.Identities,
		profiles:     cfg.Profiles,
		defaultRoles: cfg.DefaultRoles,
		now:          now,
		log:          log,
	}
	pipeline.Handle(reg, register.Handle)
	reg.AddValidator(KindRegister, newRegisterValidator())

	current := &currentUserHandler{identities: cfg.Identities, profiles: cfg.Profiles}
	pipeline.Handle(reg, current.Handle)

	opts := []pipeline.Option{pipeline.WithLogger(log), pipeline.WithBehaviors(cfg.Behaviors...)}
	if cfg.Observer != nil {
		opts = append(opts, pipeline.WithObserver(cfg.Observer))
	}

	d, err := reg.Build(Kinds, opts...)
	if err != nil {
		return nil, err
	}
	return &Service{dispatcher: d}, nil
}

func (s *Service) Login(ctx context.Context, cmd LoginCommand) (pipeline.Result[domain.Profile], error) {
	return pipeline.Send[domain.Profile](ctx, s.dispatcher, cmd)
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (pipeline.Result[domain.Profile], error) {
	return pipeline.Send[domain.Profile](ctx, s.dispatcher, cmd)
}

func (s *Service) CurrentUser(ctx context.Context, q GetCurrentUserQuery) (pipeline.Result[domain.Profile], error) {
	return pipeline.Send[domain.Profile](ctx, s.dispatcher, q)
}
