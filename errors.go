package tracescope

import "errors"

// ErrFormat is returned if a buffer does not start with the magic number of a
// known trace format, or if no registered format matches.
var ErrFormat = errors.New("unknown trace format")

// ErrDecode is returned if the payload following a valid magic number is malformed.
var ErrDecode = errors.New("malformed trace payload")

// ErrUnsupportedDomain is returned if a timestamp domain cannot be derived for an entry.
var ErrUnsupportedDomain = errors.New("timestamp domain not supported")

// ErrIndex is returned for out-of-range entry access.
var ErrIndex = errors.New("entry index out of range")

// ErrInvariant flags a broken tree or range invariant. It signals a programming
// error and is never expected in correct operation.
var ErrInvariant = errors.New("invariant violation")
