package store

import "errors"

// Sentinel errors for document store operations.
var (
	// ErrNotLoaded indicates Load has not completed successfully yet.
	ErrNotLoaded = errors.New("store: documents not loaded")

	// ErrStaticDocument indicates a refresh was requested for an inventory
	// document, which is only fetched at startup.
	ErrStaticDocument = errors.New("store: document is not refreshable")
)
