package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the mutation paths. Handlers map these to distinct
// user-visible responses, so collapsing them is not an option.
var (
	// ErrNotFound means the referenced entity does not exist (anymore).
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means the requested status change has no edge from
	// the entity's current status. The entity is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConflict means a cross-entity consistency rule blocked the operation.
	ErrConflict = errors.New("conflict")

	// ErrTransient means an external service failed; the caller may retry.
	ErrTransient = errors.New("temporarily unavailable")
)

// Conflict variants. Both match errors.Is(err, ErrConflict); the admin UI
// distinguishes "the item was deleted" from "someone else got there first".
var (
	ErrItemDeleted     = fmt.Errorf("%w: item has been deleted", ErrConflict)
	ErrItemUnavailable = fmt.Errorf("%w: item is no longer available", ErrConflict)
)

// ValidationError reports missing or malformed required fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
