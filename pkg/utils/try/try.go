// Package try shortens "value or error" handling in setup code: command wiring and tests.
package try

// Fataler is something which can abort with Fatal, like *testing.T and *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either holds the pair returned from a fallible call.
type Either[T any] struct {
	value T
	err   error
}

// To captures (value, error).
//
//	conf := try.To(store.Load(path)).OrFatal(t)
func To[T any](value T, err error) Either[T] {
	if err != nil {
		return Either[T]{err: err}
	}
	return Either[T]{value: value}
}

// Get returns the captured pair. The value is zero when there is an error.
func (e Either[T]) Get() (T, error) {
	return e.value, e.err
}

// OrDefault returns the value, or d when there is an error.
func (e Either[T]) OrDefault(d T) T {
	if e.err != nil {
		return d
	}
	return e.value
}

// OrFatal returns the value, or calls ftl.Fatal(err) when there is an error.
//
// When ftl has Helper() (like *testing.T), it is called before Fatal.
func (e Either[T]) OrFatal(ftl Fataler) T {
	if e.err == nil {
		return e.value
	}
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper()
	}
	ftl.Fatal(e.err)
	return *new(T)
}
