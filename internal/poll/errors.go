package poll

import "errors"

// Sentinel errors for the poll loop.
var (
	// ErrInventory indicates the startup documents could not be loaded.
	// The exporter cannot run without them.
	ErrInventory = errors.New("poll: inventory unavailable")

	// ErrNotInitialised indicates Run was called before a successful Init.
	ErrNotInitialised = errors.New("poll: loop not initialised")

	// ErrEntityPanic wraps a panic recovered while processing one entity.
	ErrEntityPanic = errors.New("poll: entity processing panicked")
)
