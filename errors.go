package target

import "errors"

// Sentinel errors for lifecycle and bootstrap operations.
var (
	ErrInvalidInput       = errors.New("target: invalid input value")
	ErrUnknownComponent   = errors.New("target: unknown component")
	ErrDuplicateComponent = errors.New("target: component already registered")
	ErrNoContainer        = errors.New("target: container not found")
	ErrDescriptorFormat   = errors.New("target: malformed nested-target descriptor")
)

// IsInvalidInput checks if err is an invalid-input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnknownComponent checks if err reports a component name with no
// registered factory.
func IsUnknownComponent(err error) bool {
	return errors.Is(err, ErrUnknownComponent)
}
