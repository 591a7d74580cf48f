package ccu

import "errors"

// Sentinel errors for XML-API access.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, ccu.ErrParseFailed) {
//	    // controller returned malformed XML, keep the previous document
//	}
var (
	// ErrFetchFailed indicates the document could not be retrieved
	// (transport error, timeout or non-200 status).
	ErrFetchFailed = errors.New("ccu: fetch failed")

	// ErrParseFailed indicates the document body is not well-formed XML
	// or does not have the expected root element.
	ErrParseFailed = errors.New("ccu: parse failed")

	// ErrUnknownDocument indicates a document name with no configured path.
	ErrUnknownDocument = errors.New("ccu: unknown document")
)
