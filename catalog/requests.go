package catalog

import (
	"time"

	"github.com/google/uuid"
)

// CreateWorkRequest captures the fields needed to author a new work. Slug is
// derived from the title when omitted. ID is optional; seeding paths pass a
// deterministic identifier so repeated runs converge on the same row.
type CreateWorkRequest struct {
	ID            uuid.UUID
	Kind          string
	Slug          string
	Title         string
	Description   *string
	DefaultLocale *string
	CoverImageURL *string
	CreatedBy     uuid.UUID
}

// PublishWorkRequest flips the publication gate open. PublishedAt defaults to
// the service clock when nil.
type PublishWorkRequest struct {
	Kind        WorkKind
	WorkID      uuid.UUID
	PublishedAt *time.Time
	PublishedBy uuid.UUID
}

// AddChapterRequest appends a child unit to a work. Ordinal must be positive
// and unused within the parent; gaps are allowed. ID is optional, as on
// CreateWorkRequest.
type AddChapterRequest struct {
	ID      uuid.UUID
	Kind    WorkKind
	WorkID  uuid.UUID
	Ordinal int
	Title   *string
	Body    *string
}
