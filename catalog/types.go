package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// WorkKind discriminates the two top-level published units.
type WorkKind string

const (
	// WorkKindSeries is a serialized project read chapter by chapter.
	WorkKindSeries WorkKind = "series"
	// WorkKindBook is a standalone book read page by page.
	WorkKindBook WorkKind = "book"
)

// ParseWorkKind normalizes a kind string, returning false for unknown values.
func ParseWorkKind(raw string) (WorkKind, bool) {
	switch WorkKind(strings.ToLower(strings.TrimSpace(raw))) {
	case WorkKindSeries:
		return WorkKindSeries, true
	case WorkKindBook:
		return WorkKindBook, true
	default:
		return "", false
	}
}

// Locale represents languages the catalog can serve.
type Locale struct {
	bun.BaseModel `bun:"table:locales,alias:l"`

	ID         uuid.UUID  `bun:",pk,type:uuid"        json:"id"`
	Code       string     `bun:"code,notnull"         json:"code"`
	Display    string     `bun:"display_name,notnull" json:"display_name"`
	NativeName *string    `bun:"native_name"          json:"native_name,omitempty"`
	IsActive   bool       `bun:"is_active,notnull,default:true"   json:"is_active"`
	IsDefault  bool       `bun:"is_default,notnull,default:false" json:"is_default"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	DeletedAt  *time.Time `bun:"deleted_at,nullzero"  json:"deleted_at,omitempty"`
}

// Work is the canonical record for a series or book. Title and Description
// hold the base-language text; localized variants live in WorkTranslation.
type Work struct {
	bun.BaseModel `bun:"table:works,alias:w"`

	ID            uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Kind          WorkKind   `bun:"kind,notnull" json:"kind"`
	Slug          string     `bun:"slug,notnull" json:"slug"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   *string    `bun:"description" json:"description,omitempty"`
	Status        string     `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt   *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	DefaultLocale *string    `bun:"default_locale" json:"default_locale,omitempty"`
	CoverImageURL *string    `bun:"cover_image_url" json:"cover_image_url,omitempty"`
	CreatedBy     uuid.UUID  `bun:"created_by,notnull,type:uuid" json:"created_by"`
	UpdatedBy     uuid.UUID  `bun:"updated_by,notnull,type:uuid" json:"updated_by"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt     *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`

	Chapters     []*Chapter         `bun:"rel:has-many,join:id=work_id" json:"chapters,omitempty"`
	Translations []*WorkTranslation `bun:"rel:has-many,join:id=work_id" json:"translations,omitempty"`
}

// Chapter is a child unit of a work: a chapter of a series or a page of a
// book. Ordinal defines reading order and is unique within the parent; it is
// not required to be contiguous.
type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:ch"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	WorkID    uuid.UUID  `bun:"work_id,notnull,type:uuid" json:"work_id"`
	Ordinal   int        `bun:"ordinal,notnull" json:"ordinal"`
	Title     *string    `bun:"title" json:"title,omitempty"`
	Body      *string    `bun:"body" json:"body,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`

	Translations []*ChapterTranslation `bun:"rel:has-many,join:id=chapter_id" json:"translations,omitempty"`
}

// WorkTranslation is a localized overlay for a work, keyed by
// (kind, work_id, locale). A row existing does not guarantee any field is
// usable: every field is independently nullable and may be blank.
type WorkTranslation struct {
	bun.BaseModel `bun:"table:work_translations,alias:wt"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	WorkID      uuid.UUID  `bun:"work_id,notnull,type:uuid" json:"work_id"`
	Kind        WorkKind   `bun:"kind,notnull" json:"kind"`
	Locale      string     `bun:"locale,notnull" json:"locale"`
	Title       *string    `bun:"title" json:"title,omitempty"`
	Description *string    `bun:"description" json:"description,omitempty"`
	Body        *string    `bun:"body" json:"body,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt   *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
}

// ChapterTranslation is a localized overlay for a chapter, keyed by
// (chapter_id, locale).
type ChapterTranslation struct {
	bun.BaseModel `bun:"table:chapter_translations,alias:cht"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ChapterID uuid.UUID  `bun:"chapter_id,notnull,type:uuid" json:"chapter_id"`
	Locale    string     `bun:"locale,notnull" json:"locale"`
	Title     *string    `bun:"title" json:"title,omitempty"`
	Body      *string    `bun:"body" json:"body,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
}
