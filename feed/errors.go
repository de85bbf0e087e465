package feed

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotAuthenticated is returned by mutations called without a viewer
	// identity. Checked before any storage access.
	ErrNotAuthenticated = errors.New("viewer is not authenticated")

	// ErrUnsupportedComment is returned when a comment is attempted on a
	// content type that has no comment store. This asymmetry is a product
	// constraint, not a gap: only general, business and association posts
	// are commentable.
	ErrUnsupportedComment = errors.New("comments are not supported for this content type")

	// ErrContentNotFound is returned when a mutation references a row that
	// does not exist in its origin store.
	ErrContentNotFound = errors.New("content not found")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
