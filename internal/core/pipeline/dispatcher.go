package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrMissingHandler   = errors.New("no handler registered for request kind")
	ErrDuplicateHandler = errors.New("more than one handler registered for request kind")
	ErrUnknownKind      = errors.New("request kind is not declared")
	ErrResultMismatch   = errors.New("handler result does not match request")
)

// Kind identifies a request variant.
type Kind string

// Request is a command or query routed through a Dispatcher.
type Request interface {
	Kind() Kind
}

// Of is a Request whose handler produces a Result[T]. Request types declare
// T by embedding Returns[T].
type Of[T any] interface {
	Request
	resultOf() T
}

// Returns is embedded in request structs to bind them to a result type.
type Returns[T any] struct{}

func (Returns[T]) resultOf() T {
	var zero T
	return zero
}

// Next invokes the remainder of the chain.
type Next func(ctx context.Context) (any, error)

// Behavior is a cross-cutting stage wrapped around every handler.
type Behavior func(ctx context.Context, req Request, next Next) (any, error)

// Outcome classifies a finished dispatch.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeInvalid Outcome = "invalid"
	OutcomeError   Outcome = "error"
)

// Observer is notified once per dispatch.
type Observer interface {
	ObserveDispatch(kind Kind, outcome Outcome, elapsed time.Duration)
}

type handlerFunc func(ctx context.Context, req Request) (any, error)

// outcomer is satisfied by every Result[T].
type outcomer interface {
	IsSuccess() bool
}

// Registry collects handlers and validators before a Dispatcher is built.
type Registry struct {
	handlers   map[Kind]handlerFunc
	validators map[Kind][]Validator
	duplicates []Kind
}

func NewRegistry() *Registry {
	return &Registry{
		handlers:   make(map[Kind]handlerFunc),
		validators: make(map[Kind][]Validator),
	}
}

// Handle registers h as the handler for the request type R. Registering a
// second handler for the same kind is reported by Build.
func Handle[R Of[T], T any](r *Registry, h func(ctx context.Context, req R) (Result[T], error)) {
	var zero R
	kind := zero.Kind()
	if _, exists := r.handlers[kind]; exists {
		r.duplicates = append(r.duplicates, kind)
		return
	}
	r.handlers[kind] = func(ctx context.Context, req Request) (any, error) {
		typed, ok := req.(R)
		if !ok {
			return nil, fmt.Errorf("%w: %s received %T", ErrResultMismatch, kind, req)
		}
		return h(ctx, typed)
	}
}

// AddValidator appends v to the validators run for kind.
func (r *Registry) AddValidator(kind Kind, v Validator) {
	r.validators[kind] = append(r.validators[kind], v)
}

type options struct {
	behaviors []Behavior
	observer  Observer
	log       zerolog.Logger
}

// Option customises Build.
type Option func(*options)

// WithBehaviors appends behaviors after validation.
func WithBehaviors(b ...Behavior) Option {
	return func(o *options) { o.behaviors = append(o.behaviors, b...) }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// Build checks that every declared kind has exactly one handler and composes
// the behavior chain for each of them.
func (r *Registry) Build(kinds []Kind, opts ...Option) (*Dispatcher, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	var errs []error
	for _, k := range r.duplicates {
		errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateHandler, k))
	}

	declared := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		if _, seen := declared[k]; seen {
			continue
		}
		declared[k] = struct{}{}
		if _, ok := r.handlers[k]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingHandler, k))
		}
	}
	for k := range r.handlers {
		if _, ok := declared[k]; !ok {
			errs = append(errs, fmt.Errorf("%w: handler for %s", ErrUnknownKind, k))
		}
	}
	for k := range r.validators {
		if _, ok := declared[k]; !ok {
			errs = append(errs, fmt.Errorf("%w: validator for %s", ErrUnknownKind, k))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	validators := make(map[Kind][]Validator, len(r.validators))
	for k, vs := range r.validators {
		validators[k] = append([]Validator(nil), vs...)
	}
	behaviors := append([]Behavior{ValidationBehavior(validators)}, o.behaviors...)

	chains := make(map[Kind]handlerFunc, len(r.handlers))
	for k, h := range r.handlers {
		chains[k] = compose(behaviors, h)
	}

	return &Dispatcher{chains: chains, observer: o.observer, log: o.log}, nil
}

// compose folds behaviors around h so that behaviors[0] runs first.
func compose(behaviors []Behavior, h handlerFunc) handlerFunc {
	chain := h
	for i := len(behaviors) - 1; i >= 0; i-- {
		b, next := behaviors[i], chain
		chain = func(ctx context.Context, req Request) (any, error) {
			return b(ctx, req, func(ctx context.Context) (any, error) {
				return next(ctx, req)
			})
		}
	}
	return chain
}

// Dispatcher routes each request to its single handler through the
// behavior chain.
type Dispatcher struct {
	chains   map[Kind]handlerFunc
	observer Observer
	log      zerolog.Logger
}

// Send dispatches req and returns the handler's Result unchanged. The error
// is non-nil for validation failures (*ValidationFailure) and for
// infrastructure errors; expected failures arrive as Result failures.
func Send[T any](ctx context.Context, d *Dispatcher, req Of[T]) (Result[T], error) {
	out, err := d.dispatch(ctx, req)
	if err != nil {
		return Result[T]{}, err
	}
	res, ok := out.(Result[T])
	if !ok {
		return Result[T]{}, fmt.Errorf("%w: %s returned %T", ErrResultMismatch, req.Kind(), out)
	}
	return res, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) (any, error) {
	kind := req.Kind()
	chain, ok := d.chains[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingHandler, kind)
	}

	start := time.Now()
	out, err := chain(ctx, req)
	outcome := classify(out, err)

	switch outcome {
	case OutcomeError:
		d.log.Error().Err(err).Str("kind", string(kind)).Msg("dispatch failed")
	case OutcomeInvalid:
		d.log.Debug().Err(err).Str("kind", string(kind)).Msg("request rejected by validation")
	default:
		d.log.Debug().Str("kind", string(kind)).Str("outcome", string(outcome)).Msg("request dispatched")
	}
	if d.observer != nil {
		d.observer.ObserveDispatch(kind, outcome, time.Since(start))
	}

	return out, err
}

func classify(out any, err error) Outcome {
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return OutcomeInvalid
		}
		return OutcomeError
	}
	if r, ok := out.(outcomer); ok && !r.IsSuccess() {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
