package selection

import "errors"

var (
	// ErrInvalidSelection indicates a code outside the session's candidate
	// list was selected. It points at a desync between the rendering layer
	// and the session.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrUnknownCode indicates a candidate code that is not in the catalog.
	ErrUnknownCode = errors.New("unknown country code")
)
