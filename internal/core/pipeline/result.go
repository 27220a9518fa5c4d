package pipeline

// Result carries the outcome of a handler for expected cases: either a value
// or a user-correctable failure reason, never both.
type Result[T any] struct {
	value  T
	reason string
	ok     bool
}

// Success wraps a handler value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure wraps an expected failure reason.
func Failure[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// Value returns the wrapped value and true on success, or the zero value and
// false on failure.
func (r Result[T]) Value() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Reason returns the failure reason; it is empty on success.
func (r Result[T]) Reason() string {
	return r.reason
}
