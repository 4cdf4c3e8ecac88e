// Package result implements a railway-oriented success/failure container.
// Every orchestration step in the checkout flow returns a Result, so a
// failure at any step short-circuits the remaining steps without panics
// or sentinel checks at each call site.
package result

// Result holds either a value of type T or an error, never both.
// The zero value is a failure with a nil error; construct instances
// with Ok or Fail.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok returns a successful Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Fail returns a failed Result carrying err.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsSuccess reports whether the Result carries a value.
func (r Result[T]) IsSuccess() bool { return r.ok }

// IsFailure reports whether the Result carries an error.
func (r Result[T]) IsFailure() bool { return !r.ok }

// Value returns the carried value. It panics when called on a failure;
// callers that cannot prove success should use Get, GetOrElse or Match.
func (r Result[T]) Value() T {
	if !r.ok {
		panic("result: cannot read value of a failure")
	}
	return r.value
}

// Err returns the carried error. It panics when called on a success.
func (r Result[T]) Err() error {
	if r.ok {
		panic("result: cannot read error of a success")
	}
	return r.err
}

// Get unpacks the Result into Go's conventional (value, error) pair.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// GetOrElse returns the value on success, or fallback on failure.
func (r Result[T]) GetOrElse(fallback T) T {
	if r.ok {
		return r.value
	}
	return fallback
}

// MapError applies f to the error of a failure. A success passes through
// unchanged and f is not called.
func (r Result[T]) MapError(f func(error) error) Result[T] {
	if r.ok {
		return r
	}
	return Fail[T](f(r.err))
}

// Map applies f to the value of a successful Result. A failure passes
// through unchanged and f is not called.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.IsFailure() {
		return Fail[U](r.err)
	}
	return Ok(f(r.value))
}

// FlatMap applies f to the value of a successful Result, sequencing two
// fallible computations. A failure passes through unchanged and f is not
// called. This is the primary chaining operator for the checkout saga.
func FlatMap[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if r.IsFailure() {
		return Fail[U](r.err)
	}
	return f(r.value)
}

// Match reduces the Result to a single value by applying onSuccess or
// onFailure, whichever side holds.
func Match[T, U any](r Result[T], onSuccess func(T) U, onFailure func(error) U) U {
	if r.ok {
		return onSuccess(r.value)
	}
	return onFailure(r.err)
}

// Combine collects the values of all Results in order. It returns the
// first failure encountered left-to-right; an empty input succeeds with
// an empty slice.
func Combine[T any](rs []Result[T]) Result[[]T] {
	values := make([]T, 0, len(rs))
	for _, r := range rs {
		if r.IsFailure() {
			return Fail[[]T](r.err)
		}
		values = append(values, r.value)
	}
	return Ok(values)
}
