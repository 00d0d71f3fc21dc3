package descriptor

import "errors"

// ErrIncompatibleABI is returned by CheckABI when a plugin was built
// against a harness ABI major version this harness does not implement.
var ErrIncompatibleABI = errors.New("incompatible plugin ABI")

// ErrBadDescriptor is returned when a resolved symbol does not look like a
// valid plugin descriptor (a symbol of the wrong type, or a zero ABI
// version).
var ErrBadDescriptor = errors.New("bad plugin descriptor")
