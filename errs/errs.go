// Package errs holds the error taxonomy shared by the stack and skiplist
// packages. Each failing operation returns one of these sentinels (and
// records it as the handle's sticky last error); a nil return already means
// "no error", so no NoError sentinel exists.
package errs

import "errors"

var (
	// ErrNoMemory reports an allocation failure. No operation here can
	// actually produce it (make/new panic rather than returning nil when
	// allocation fails), but the taxonomy keeps a home for it so callers
	// switching on LastError have the full set.
	ErrNoMemory = errors.New("crow: allocation failed")

	// ErrNoElement reports a search miss or a pop against an empty stack.
	// Removing a missing key is not an error and does not return it.
	ErrNoElement = errors.New("crow: no such element")

	// ErrNoThreads reports that the per-instance hazard-pointer or
	// epoch-slot registry is exhausted (more concurrent accessors than
	// MaxHazardPointers / MaxThreads).
	ErrNoThreads = errors.New("crow: accessor registry exhausted")

	// ErrInvalidArgument reports a caller error, such as a nonsensical
	// configuration value.
	ErrInvalidArgument = errors.New("crow: invalid argument")

	// ErrThreadLocalError reports that the goroutine-local slot cache
	// could not be consulted or updated.
	ErrThreadLocalError = errors.New("crow: thread-local slot unavailable")
)
