package resolve

import "errors"

var (
	// ErrBadToken reports a share token that does not decode to a valid
	// action sequence.
	ErrBadToken = errors.New("malformed share token")
)
