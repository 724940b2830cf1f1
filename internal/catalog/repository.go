package catalog

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// WorkRepository persists series and book records.
type WorkRepository interface {
	Create(ctx context.Context, record *Work) (*Work, error)
	GetByID(ctx context.Context, kind WorkKind, id uuid.UUID) (*Work, error)
	GetBySlug(ctx context.Context, kind WorkKind, slug string) (*Work, error)
	List(ctx context.Context, kind WorkKind) ([]*Work, error)
	ListPublished(ctx context.Context, kind WorkKind) ([]*Work, error)
	Update(ctx context.Context, record *Work) (*Work, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChapterRepository persists the child units of a work.
type ChapterRepository interface {
	Create(ctx context.Context, record *Chapter) (*Chapter, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Chapter, error)
	GetByOrdinal(ctx context.Context, workID uuid.UUID, ordinal int) (*Chapter, error)
	ListByWork(ctx context.Context, workID uuid.UUID) ([]*Chapter, error)
	Update(ctx context.Context, record *Chapter) (*Chapter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TranslationRepository persists localized overlays. The List methods accept a
// batch of owner identifiers so callers can fetch one locale's rows for a whole
// work (parent plus children) in a single round trip per chain step.
type TranslationRepository interface {
	UpsertWorkTranslation(ctx context.Context, record *WorkTranslation) (*WorkTranslation, error)
	UpsertChapterTranslation(ctx context.Context, record *ChapterTranslation) (*ChapterTranslation, error)
	DeleteWorkTranslation(ctx context.Context, kind WorkKind, workID uuid.UUID, locale string) error
	DeleteChapterTranslation(ctx context.Context, chapterID uuid.UUID, locale string) error
	ListWorkTranslations(ctx context.Context, kind WorkKind, workIDs []uuid.UUID, locale string) ([]*WorkTranslation, error)
	ListChapterTranslations(ctx context.Context, chapterIDs []uuid.UUID, locale string) ([]*ChapterTranslation, error)
}

// LocaleRepository persists the locale registry.
type LocaleRepository interface {
	Upsert(ctx context.Context, record *Locale) (*Locale, error)
	GetByCode(ctx context.Context, code string) (*Locale, error)
	List(ctx context.Context) ([]*Locale, error)
}

func NewWorkRepository(db *bun.DB) repository.Repository[*Work] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Work]{
		NewRecord: func() *Work { return &Work{} },
		GetID: func(w *Work) uuid.UUID {
			return w.ID
		},
		SetID: func(w *Work, id uuid.UUID) {
			w.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(w *Work) string {
			return w.Slug
		},
	})
}

func NewChapterRepository(db *bun.DB) repository.Repository[*Chapter] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Chapter]{
		NewRecord: func() *Chapter { return &Chapter{} },
		GetID: func(c *Chapter) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Chapter, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*Chapter) string {
			return ""
		},
	})
}

func NewWorkTranslationRepository(db *bun.DB) repository.Repository[*WorkTranslation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*WorkTranslation]{
		NewRecord: func() *WorkTranslation { return &WorkTranslation{} },
		GetID: func(t *WorkTranslation) uuid.UUID {
			return t.ID
		},
		SetID: func(t *WorkTranslation, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "locale"
		},
		GetIdentifierValue: func(t *WorkTranslation) string {
			return t.Locale
		},
	})
}

func NewChapterTranslationRepository(db *bun.DB) repository.Repository[*ChapterTranslation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ChapterTranslation]{
		NewRecord: func() *ChapterTranslation { return &ChapterTranslation{} },
		GetID: func(t *ChapterTranslation) uuid.UUID {
			return t.ID
		},
		SetID: func(t *ChapterTranslation, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "locale"
		},
		GetIdentifierValue: func(t *ChapterTranslation) string {
			return t.Locale
		},
	})
}

func NewLocaleRepository(db *bun.DB) repository.Repository[*Locale] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Locale]{
		NewRecord: func() *Locale { return &Locale{} },
		GetID: func(l *Locale) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Locale, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "code"
		},
		GetIdentifierValue: func(l *Locale) string {
			return l.Code
		},
	})
}
