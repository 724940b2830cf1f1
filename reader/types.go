package reader

import (
	"context"
	"time"

	"github.com/goliatone/go-shelf/catalog"
	"github.com/google/uuid"
)

// Projection is the resolved, locale-merged view of an item's text fields.
// It is assembled fresh per request and never persisted. Description and Body
// stay nil when neither a translation nor the base record carries them.
type Projection struct {
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	Body         *string `json:"body,omitempty"`
	SourceLocale string  `json:"source_locale"`
	UsedFallback bool    `json:"used_fallback"`
}

// ResolvedChapter pairs a chapter's reading-order ordinal with its projection.
// Prev and Next carry the neighbouring ordinals when the chapter was resolved
// individually, so callers can build pager navigation without a second query.
type ResolvedChapter struct {
	ID         uuid.UUID  `json:"id"`
	Ordinal    int        `json:"ordinal"`
	Projection Projection `json:"projection"`
	Prev       *int       `json:"prev,omitempty"`
	Next       *int       `json:"next,omitempty"`
	Href       string     `json:"href,omitempty"`
}

// ResolvedWork is the reader-facing view of a series or book: the parent
// projection plus every chapter projection in ordinal order.
type ResolvedWork struct {
	ID          uuid.UUID         `json:"id"`
	Kind        catalog.WorkKind  `json:"kind"`
	Slug        string            `json:"slug"`
	CreatedAt   time.Time         `json:"created_at"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	Projection  Projection        `json:"projection"`
	Chapters    []ResolvedChapter `json:"chapters"`
	Href        string            `json:"href,omitempty"`
}

// WorkSummary is the listing view used by the reader index: title and
// description only, no chapter bodies.
type WorkSummary struct {
	ID         uuid.UUID        `json:"id"`
	Kind       catalog.WorkKind `json:"kind"`
	Slug       string           `json:"slug"`
	CreatedAt  time.Time        `json:"created_at"`
	Projection Projection       `json:"projection"`
	Href       string           `json:"href,omitempty"`
}

// Service resolves published catalog entries into locale-merged projections
// for anonymous readers. Implementations must evaluate the publication gate
// before issuing any translation lookup and must degrade translation-store
// failures to base-language output instead of propagating them.
type Service interface {
	ResolveWork(ctx context.Context, kind catalog.WorkKind, id uuid.UUID, locale string) (*ResolvedWork, error)
	ResolveWorkBySlug(ctx context.Context, kind catalog.WorkKind, slug string, locale string) (*ResolvedWork, error)
	ResolveChapter(ctx context.Context, kind catalog.WorkKind, workID uuid.UUID, ordinal int, locale string) (*ResolvedChapter, error)
	ListPublished(ctx context.Context, kind catalog.WorkKind, locale string) ([]*WorkSummary, error)
}
