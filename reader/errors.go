package reader

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-shelf/catalog"
	"github.com/google/uuid"
)

var (
	// ErrNotVisible indicates the work exists but the publication gate
	// rejected it. Callers should render a generic "not available" view
	// rather than a 404 so drafts stay indistinguishable from private
	// content, while ErrWorkNotFound keeps meaning "never existed".
	ErrNotVisible = errors.New("reader: work is not visible")
	// ErrKindRequired indicates the work kind was missing or unknown.
	ErrKindRequired = errors.New("reader: work kind is required")
	// ErrWorkIDRequired indicates the work identifier was missing.
	ErrWorkIDRequired = errors.New("reader: work id is required")
)

// NotVisibleError reports a gate rejection and unwraps to ErrNotVisible.
type NotVisibleError struct {
	Kind catalog.WorkKind
	ID   uuid.UUID
}

func (e *NotVisibleError) Error() string {
	if e == nil {
		return ErrNotVisible.Error()
	}
	if e.ID == uuid.Nil {
		return ErrNotVisible.Error()
	}
	return fmt.Sprintf("reader: %s %s is not visible", e.Kind, e.ID)
}

func (e *NotVisibleError) Unwrap() error {
	return ErrNotVisible
}
