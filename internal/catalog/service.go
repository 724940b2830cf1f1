package catalog

import (
	"context"
	"strings"
	"time"

	shelfcatalog "github.com/goliatone/go-shelf/catalog"
	"github.com/goliatone/go-shelf/internal/domain"
	"github.com/goliatone/go-shelf/internal/locales"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the editor-facing catalog operations: authoring works and
// chapters, flipping the publication gate, and maintaining translation
// overlays. Reader-facing resolution lives in the reader service; this service
// never merges locales.
type Service interface {
	CreateWork(ctx context.Context, req CreateWorkRequest) (*Work, error)
	UpdateWork(ctx context.Context, req UpdateWorkRequest) (*Work, error)
	GetWork(ctx context.Context, kind WorkKind, id uuid.UUID) (*Work, error)
	GetWorkBySlug(ctx context.Context, kind WorkKind, slug string) (*Work, error)
	ListWorks(ctx context.Context, kind WorkKind) ([]*Work, error)
	DeleteWork(ctx context.Context, kind WorkKind, id uuid.UUID) error

	PublishWork(ctx context.Context, req PublishWorkRequest) (*Work, error)
	UnpublishWork(ctx context.Context, req UnpublishWorkRequest) (*Work, error)

	AddChapter(ctx context.Context, req AddChapterRequest) (*Chapter, error)
	UpdateChapter(ctx context.Context, req UpdateChapterRequest) (*Chapter, error)
	ListChapters(ctx context.Context, workID uuid.UUID) ([]*Chapter, error)
	DeleteChapter(ctx context.Context, id uuid.UUID) error

	UpsertWorkTranslation(ctx context.Context, req UpsertWorkTranslationRequest) (*WorkTranslation, error)
	UpsertChapterTranslation(ctx context.Context, req UpsertChapterTranslationRequest) (*ChapterTranslation, error)
	DeleteWorkTranslation(ctx context.Context, kind WorkKind, workID uuid.UUID, locale string) error
	DeleteChapterTranslation(ctx context.Context, chapterID uuid.UUID, locale string) error

	Locales(ctx context.Context) ([]*Locale, error)
}

// UpdateWorkRequest applies partial edits to a work's base record. Nil fields
// are left untouched.
type UpdateWorkRequest struct {
	Kind          WorkKind
	WorkID        uuid.UUID
	Slug          *string
	Title         *string
	Description   *string
	DefaultLocale *string
	CoverImageURL *string
	UpdatedBy     uuid.UUID
}

// UnpublishWorkRequest closes the publication gate: status returns to draft
// and the published timestamp is cleared so neither visibility path stays open.
type UnpublishWorkRequest struct {
	Kind          WorkKind
	WorkID        uuid.UUID
	UnpublishedBy uuid.UUID
}

// UpdateChapterRequest applies partial edits to a chapter. Ordinal zero means
// keep the current position.
type UpdateChapterRequest struct {
	ChapterID uuid.UUID
	Ordinal   int
	Title     *string
	Body      *string
}

// UpsertWorkTranslationRequest creates or replaces one locale's overlay for a
// work. Every field is optional but at least one must carry text. ID is only
// consulted when the upsert creates a new row.
type UpsertWorkTranslationRequest struct {
	ID          uuid.UUID
	Kind        WorkKind
	WorkID      uuid.UUID
	Locale      string
	Title       *string
	Description *string
	Body        *string
}

// UpsertChapterTranslationRequest creates or replaces one locale's overlay for
// a chapter.
type UpsertChapterTranslationRequest struct {
	ID        uuid.UUID
	ChapterID uuid.UUID
	Locale    string
	Title     *string
	Body      *string
}

type service struct {
	works        WorkRepository
	chapters     ChapterRepository
	translations TranslationRepository
	locales      LocaleRepository
	resolver     *locales.Resolver
	logger       interfaces.Logger
	now          func() time.Time
	idGenerator  func() uuid.UUID
}

// Option customizes the catalog service.
type Option func(*service)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides identifier generation, mainly for deterministic
// seeding and tests.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(s *service) {
		if generator != nil {
			s.idGenerator = generator
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs the catalog service.
func New(
	works WorkRepository,
	chapters ChapterRepository,
	translations TranslationRepository,
	localeRepo LocaleRepository,
	resolver *locales.Resolver,
	opts ...Option,
) Service {
	svc := &service{
		works:        works,
		chapters:     chapters,
		translations: translations,
		locales:      localeRepo,
		resolver:     resolver,
		logger:       logging.NoOp(),
		now:          func() time.Time { return time.Now().UTC() },
		idGenerator:  uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *service) CreateWork(ctx context.Context, req CreateWorkRequest) (*Work, error) {
	kind, ok := shelfcatalog.ParseWorkKind(req.Kind)
	if !ok {
		return nil, ErrWorkKindInvalid
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		derived, err := shelfcatalog.SlugFromTitle(title)
		if err != nil {
			return nil, err
		}
		slug = derived
	}
	if !shelfcatalog.IsValidSlug(slug) {
		return nil, ErrSlugInvalid
	}

	defaultLocale, err := s.normalizeOptionalLocale(req.DefaultLocale)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Work{
		ID:            s.newID(req.ID),
		Kind:          kind,
		Slug:          slug,
		Title:         title,
		Description:   req.Description,
		Status:        string(domain.StatusDraft),
		DefaultLocale: defaultLocale,
		CoverImageURL: req.CoverImageURL,
		CreatedBy:     req.CreatedBy,
		UpdatedBy:     req.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.works.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("work created",
		"kind", string(created.Kind),
		"work_id", created.ID.String(),
		"slug", created.Slug,
	)
	return created, nil
}

func (s *service) UpdateWork(ctx context.Context, req UpdateWorkRequest) (*Work, error) {
	if req.WorkID == uuid.Nil {
		return nil, ErrWorkIDRequired
	}

	current, err := s.works.GetByID(ctx, req.Kind, req.WorkID)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if slug == "" {
			return nil, ErrSlugRequired
		}
		if !shelfcatalog.IsValidSlug(slug) {
			return nil, ErrSlugInvalid
		}
		current.Slug = slug
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		current.Title = title
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.DefaultLocale != nil {
		normalized, err := s.normalizeOptionalLocale(req.DefaultLocale)
		if err != nil {
			return nil, err
		}
		current.DefaultLocale = normalized
	}
	if req.CoverImageURL != nil {
		current.CoverImageURL = req.CoverImageURL
	}
	current.UpdatedBy = req.UpdatedBy
	current.UpdatedAt = s.now()

	return s.works.Update(ctx, current)
}

func (s *service) GetWork(ctx context.Context, kind WorkKind, id uuid.UUID) (*Work, error) {
	if id == uuid.Nil {
		return nil, ErrWorkIDRequired
	}
	return s.works.GetByID(ctx, kind, id)
}

func (s *service) GetWorkBySlug(ctx context.Context, kind WorkKind, slug string) (*Work, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	return s.works.GetBySlug(ctx, kind, slug)
}

func (s *service) ListWorks(ctx context.Context, kind WorkKind) ([]*Work, error) {
	return s.works.List(ctx, kind)
}

func (s *service) DeleteWork(ctx context.Context, kind WorkKind, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrWorkIDRequired
	}
	if _, err := s.works.GetByID(ctx, kind, id); err != nil {
		return err
	}
	return s.works.Delete(ctx, id)
}

func (s *service) PublishWork(ctx context.Context, req PublishWorkRequest) (*Work, error) {
	if req.WorkID == uuid.Nil {
		return nil, ErrWorkIDRequired
	}

	current, err := s.works.GetByID(ctx, req.Kind, req.WorkID)
	if err != nil {
		return nil, err
	}
	if domain.Visible(domain.Status(current.Status), current.PublishedAt) {
		return nil, ErrAlreadyPublished
	}

	publishedAt := s.now()
	if req.PublishedAt != nil {
		publishedAt = req.PublishedAt.UTC()
	}

	current.Status = string(domain.StatusPublished)
	current.PublishedAt = &publishedAt
	current.UpdatedBy = req.PublishedBy
	current.UpdatedAt = s.now()

	updated, err := s.works.Update(ctx, current)
	if err != nil {
		return nil, err
	}

	s.logger.Info("work published",
		"kind", string(updated.Kind),
		"work_id", updated.ID.String(),
		"published_at", publishedAt,
	)
	return updated, nil
}

func (s *service) UnpublishWork(ctx context.Context, req UnpublishWorkRequest) (*Work, error) {
	if req.WorkID == uuid.Nil {
		return nil, ErrWorkIDRequired
	}

	current, err := s.works.GetByID(ctx, req.Kind, req.WorkID)
	if err != nil {
		return nil, err
	}
	if !domain.Visible(domain.Status(current.Status), current.PublishedAt) {
		return nil, ErrNotPublished
	}

	current.Status = string(domain.StatusDraft)
	current.PublishedAt = nil
	current.UpdatedBy = req.UnpublishedBy
	current.UpdatedAt = s.now()

	updated, err := s.works.Update(ctx, current)
	if err != nil {
		return nil, err
	}

	s.logger.Info("work unpublished",
		"kind", string(updated.Kind),
		"work_id", updated.ID.String(),
	)
	return updated, nil
}

func (s *service) AddChapter(ctx context.Context, req AddChapterRequest) (*Chapter, error) {
	if req.WorkID == uuid.Nil {
		return nil, ErrWorkIDRequired
	}
	if req.Ordinal <= 0 {
		return nil, ErrOrdinalInvalid
	}
	if _, err := s.works.GetByID(ctx, req.Kind, req.WorkID); err != nil {
		return nil, err
	}

	now := s.now()
	record := &Chapter{
		ID:        s.newID(req.ID),
		WorkID:    req.WorkID,
		Ordinal:   req.Ordinal,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.chapters.Create(ctx, record)
}

func (s *service) UpdateChapter(ctx context.Context, req UpdateChapterRequest) (*Chapter, error) {
	if req.ChapterID == uuid.Nil {
		return nil, ErrChapterIDRequired
	}

	current, err := s.chapters.GetByID(ctx, req.ChapterID)
	if err != nil {
		return nil, err
	}

	if req.Ordinal != 0 {
		if req.Ordinal < 0 {
			return nil, ErrOrdinalInvalid
		}
		current.Ordinal = req.Ordinal
	}
	if req.Title != nil {
		current.Title = req.Title
	}
	if req.Body != nil {
		current.Body = req.Body
	}
	current.UpdatedAt = s.now()

	return s.chapters.Update(ctx, current)
}

func (s *service) ListChapters(ctx context.Context, workID uuid.UUID) ([]*Chapter, error) {
	if workID == uuid.Nil {
		return nil, ErrWorkIDRequired
	}
	return s.chapters.ListByWork(ctx, workID)
}

func (s *service) DeleteChapter(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrChapterIDRequired
	}
	return s.chapters.Delete(ctx, id)
}

func (s *service) UpsertWorkTranslation(ctx context.Context, req UpsertWorkTranslationRequest) (*WorkTranslation, error) {
	if req.WorkID == uuid.Nil {
		return nil, ErrWorkIDRequired
	}

	locale, err := s.requireLocale(req.Locale)
	if err != nil {
		return nil, err
	}
	if !hasText(req.Title) && !hasText(req.Description) && !hasText(req.Body) {
		return nil, ErrTranslationEmpty
	}
	if _, err := s.works.GetByID(ctx, req.Kind, req.WorkID); err != nil {
		return nil, err
	}

	now := s.now()
	record := &WorkTranslation{
		ID:          s.newID(req.ID),
		WorkID:      req.WorkID,
		Kind:        req.Kind,
		Locale:      locale,
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.translations.UpsertWorkTranslation(ctx, record)
}

func (s *service) UpsertChapterTranslation(ctx context.Context, req UpsertChapterTranslationRequest) (*ChapterTranslation, error) {
	if req.ChapterID == uuid.Nil {
		return nil, ErrChapterIDRequired
	}

	locale, err := s.requireLocale(req.Locale)
	if err != nil {
		return nil, err
	}
	if !hasText(req.Title) && !hasText(req.Body) {
		return nil, ErrTranslationEmpty
	}
	if _, err := s.chapters.GetByID(ctx, req.ChapterID); err != nil {
		return nil, err
	}

	now := s.now()
	record := &ChapterTranslation{
		ID:        s.newID(req.ID),
		ChapterID: req.ChapterID,
		Locale:    locale,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.translations.UpsertChapterTranslation(ctx, record)
}

func (s *service) DeleteWorkTranslation(ctx context.Context, kind WorkKind, workID uuid.UUID, locale string) error {
	if workID == uuid.Nil {
		return ErrWorkIDRequired
	}
	normalized, err := s.requireLocale(locale)
	if err != nil {
		return err
	}
	return s.translations.DeleteWorkTranslation(ctx, kind, workID, normalized)
}

func (s *service) DeleteChapterTranslation(ctx context.Context, chapterID uuid.UUID, locale string) error {
	if chapterID == uuid.Nil {
		return ErrChapterIDRequired
	}
	normalized, err := s.requireLocale(locale)
	if err != nil {
		return err
	}
	return s.translations.DeleteChapterTranslation(ctx, chapterID, normalized)
}

func (s *service) Locales(ctx context.Context) ([]*Locale, error) {
	return s.locales.List(ctx)
}

// newID honours an explicit identifier from the request, falling back to the
// configured generator.
func (s *service) newID(explicit uuid.UUID) uuid.UUID {
	if explicit != uuid.Nil {
		return explicit
	}
	return s.idGenerator()
}

// requireLocale canonicalizes a locale code against the supported set, so a
// "ko-KR" upsert lands on the same row a "ko" read will hit.
func (s *service) requireLocale(raw string) (string, error) {
	normalized := s.resolver.Normalize(raw)
	if normalized == "" {
		return "", &LocaleNotFoundError{Code: raw}
	}
	return normalized, nil
}

func (s *service) normalizeOptionalLocale(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	normalized := s.resolver.Normalize(*raw)
	if normalized == "" {
		return nil, ErrDefaultLocaleUnknown
	}
	return &normalized, nil
}

func hasText(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}
