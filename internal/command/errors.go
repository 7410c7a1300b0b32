package command

import "errors"

var (
	// ErrMenuMismatch reports that the menu order lists keys missing from the bindings.
	ErrMenuMismatch = errors.New("menu order does not match key bindings")
	// ErrDuplicateKey reports a key bound more than once.
	ErrDuplicateKey = errors.New("duplicate key binding")
	// ErrEmptyKey reports a binding without a key identifier.
	ErrEmptyKey = errors.New("empty key identifier")
	// ErrNoController is returned when a dispatcher is built without a controller.
	ErrNoController = errors.New("no robot controller")
)
