package policy

import "errors"

// Sentinel errors for policy operations.
var (
	// ErrUnsupportedFormat indicates a policy file extension or format that cannot be parsed.
	ErrUnsupportedFormat = errors.New("unsupported policy format")
	// ErrNoPolicyFile indicates a Store was created without a policy path.
	ErrNoPolicyFile = errors.New("no policy file configured")
)
