package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// ValidationMessage is the summary reported alongside field errors.
const ValidationMessage = "One or more validation errors occurred."

// ErrValidation is the sentinel every *ValidationFailure unwraps to.
var ErrValidation = errors.New("validation failed")

// ValidationError is a single failing rule on a single field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationFailure aggregates every field error reported for one request.
// It is only constructed with at least one error.
type ValidationFailure struct {
	Errors []ValidationError
}

func (f *ValidationFailure) Error() string {
	msgs := make([]string, 0, len(f.Errors))
	for _, e := range f.Errors {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return fmt.Sprintf("%s %s", ValidationMessage, strings.Join(msgs, "; "))
}

func (f *ValidationFailure) Unwrap() error {
	return ErrValidation
}

// Validator inspects a request and reports every rule it breaks.
type Validator interface {
	Validate(ctx context.Context, req Request) []ValidationError
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(ctx context.Context, req Request) []ValidationError

func (f ValidatorFunc) Validate(ctx context.Context, req Request) []ValidationError {
	return f(ctx, req)
}

// ValidationBehavior runs the validators registered for the request kind
// before calling next. All validators run to completion; their errors are
// reported together in registration order.
func ValidationBehavior(validators map[Kind][]Validator) Behavior {
	return func(ctx context.Context, req Request, next Next) (any, error) {
		vs := validators[req.Kind()]
		if len(vs) == 0 {
			return next(ctx)
		}

		errs, err := runValidators(ctx, req, vs)
		if err != nil {
			return nil, err
		}
		if len(errs) > 0 {
			return nil, &ValidationFailure{Errors: errs}
		}
		return next(ctx)
	}
}

func runValidators(ctx context.Context, req Request, vs []Validator) ([]ValidationError, error) {
	results := make([][]ValidationError, len(vs))

	var g errgroup.Group
	for i, v := range vs {
		g.Go(func() error {
			results[i] = v.Validate(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var errs []ValidationError
	for _, r := range results {
		errs = append(errs, r...)
	}
	return errs, nil
}

// Messages maps "field.tag" (json field name, validator tag) to the message
// reported for that rule.
type Messages map[string]string

// StructValidator checks a request struct against its `validate` tags.
type StructValidator struct {
	v        *validator.Validate
	messages Messages
}

// NewStructValidator returns a StructValidator that reports fields by their
// json name. The "notblank" tag rejects strings that are empty after trimming.
func NewStructValidator(messages Messages) *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &StructValidator{v: v, messages: messages}
}

// Validate satisfies Validator. Every rule of every field is evaluated on its
// own, so a field breaking several rules reports each of them. Errors come
// back in struct field order, then in tag order.
func (sv *StructValidator) Validate(ctx context.Context, req Request) []ValidationError {
	val := reflect.Indirect(reflect.ValueOf(req))
	if val.Kind() != reflect.Struct {
		return []ValidationError{{Field: "request", Message: fmt.Sprintf("unsupported request type %T", req)}}
	}

	var out []ValidationError
	typ := val.Type()
	for i := range typ.NumField() {
		f := typ.Field(i)
		rules := f.Tag.Get("validate")
		if rules == "" || rules == "-" || !f.IsExported() {
			continue
		}
		out = append(out, sv.validateField(ctx, fieldName(f), val.Field(i), strings.Split(rules, ","))...)
	}
	return out
}

func (sv *StructValidator) validateField(ctx context.Context, name string, fv reflect.Value, tags []string) []ValidationError {
	var out []ValidationError
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if tag == "omitempty" {
			if fv.IsZero() {
				return nil
			}
			continue
		}

		err := sv.v.VarCtx(ctx, fv.Interface(), tag)
		if err == nil {
			continue
		}
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			out = append(out, ValidationError{Field: name, Message: err.Error()})
			continue
		}
		for _, fe := range ve {
			out = append(out, ValidationError{Field: name, Message: sv.message(name, fe.Tag(), fe.Param())})
		}
	}
	return out
}

// fieldName is the json name of f, or its Go name when it has none.
func fieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func (sv *StructValidator) message(field, tag, param string) string {
	if msg, ok := sv.messages[field+"."+tag]; ok {
		return msg
	}
	switch tag {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, tag)
	}
}
