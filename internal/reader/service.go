package reader

import (
	"context"
	"strings"

	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/domain"
	"github.com/goliatone/go-shelf/internal/locales"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/interfaces"
	"github.com/goliatone/go-shelf/reader"
	"github.com/google/uuid"
)

// WorkStore is the slice of work persistence the reader needs.
type WorkStore interface {
	GetByID(ctx context.Context, kind catalog.WorkKind, id uuid.UUID) (*catalog.Work, error)
	GetBySlug(ctx context.Context, kind catalog.WorkKind, slug string) (*catalog.Work, error)
	ListPublished(ctx context.Context, kind catalog.WorkKind) ([]*catalog.Work, error)
}

// ChapterStore is the slice of chapter persistence the reader needs.
type ChapterStore interface {
	GetByOrdinal(ctx context.Context, workID uuid.UUID, ordinal int) (*catalog.Chapter, error)
	ListByWork(ctx context.Context, workID uuid.UUID) ([]*catalog.Chapter, error)
}

// TranslationStore is the slice of translation persistence the reader needs.
// Both methods are batch lookups: one call per fallback-chain step covers every
// record being resolved.
type TranslationStore interface {
	ListWorkTranslations(ctx context.Context, kind catalog.WorkKind, workIDs []uuid.UUID, locale string) ([]*catalog.WorkTranslation, error)
	ListChapterTranslations(ctx context.Context, chapterIDs []uuid.UUID, locale string) ([]*catalog.ChapterTranslation, error)
}

// LinkBuilder produces reader-facing URLs for resolved records. It is optional;
// without one, resolved views carry empty hrefs.
type LinkBuilder interface {
	WorkURL(kind catalog.WorkKind, slug string, locale string) (string, error)
	ChapterURL(kind catalog.WorkKind, slug string, ordinal int, locale string) (string, error)
}

type service struct {
	works        WorkStore
	chapters     ChapterStore
	translations TranslationStore
	resolver     *locales.Resolver
	links        LinkBuilder
	logger       interfaces.Logger
}

// Option customizes the reader service.
type Option func(*service)

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLinkBuilder attaches a URL builder for resolved views.
func WithLinkBuilder(links LinkBuilder) Option {
	return func(s *service) {
		s.links = links
	}
}

// New constructs the reader service.
func New(
	works WorkStore,
	chapters ChapterStore,
	translations TranslationStore,
	resolver *locales.Resolver,
	opts ...Option,
) reader.Service {
	svc := &service{
		works:        works,
		chapters:     chapters,
		translations: translations,
		resolver:     resolver,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *service) ResolveWork(ctx context.Context, kind catalog.WorkKind, id uuid.UUID, locale string) (*reader.ResolvedWork, error) {
	if kind == "" {
		return nil, reader.ErrKindRequired
	}
	if id == uuid.Nil {
		return nil, reader.ErrWorkIDRequired
	}

	work, err := s.works.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.resolveWork(ctx, work, locale)
}

func (s *service) ResolveWorkBySlug(ctx context.Context, kind catalog.WorkKind, slug string, locale string) (*reader.ResolvedWork, error) {
	if kind == "" {
		return nil, reader.ErrKindRequired
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, catalog.ErrSlugRequired
	}

	work, err := s.works.GetBySlug(ctx, kind, slug)
	if err != nil {
		return nil, err
	}
	return s.resolveWork(ctx, work, locale)
}

// resolveWork runs the full pipeline for one work: publication gate first,
// then the base children fetch, then one translation batch per fallback-chain
// step until every field is settled.
func (s *service) resolveWork(ctx context.Context, work *catalog.Work, locale string) (*reader.ResolvedWork, error) {
	if !domain.Visible(domain.Status(work.Status), work.PublishedAt) {
		return nil, &reader.NotVisibleError{Kind: work.Kind, ID: work.ID}
	}

	chapters, err := s.chapters.ListByWork(ctx, work.ID)
	if err != nil {
		return nil, err
	}

	requested := s.resolver.Normalize(locale)
	chain := s.chain(locale, work)

	workState := newWorkState(work, s.baseLocale(work))
	chapterStates := make([]*chapterState, len(chapters))
	chapterIDs := make([]uuid.UUID, len(chapters))
	for i, chapter := range chapters {
		chapterStates[i] = newChapterState(chapter, s.baseLocale(work))
		chapterIDs[i] = chapter.ID
	}

	for _, step := range chain {
		if workState.settled() && chaptersSettled(chapterStates) {
			break
		}

		if !workState.settled() {
			overlays, err := s.translations.ListWorkTranslations(ctx, work.Kind, []uuid.UUID{work.ID}, step)
			if err != nil {
				s.logDegraded(work, step, err)
				workState.reset()
				resetChapters(chapterStates)
				break
			}
			for _, overlay := range overlays {
				if overlay != nil && overlay.WorkID == work.ID {
					workState.apply(overlay, step)
				}
			}
		}

		if len(chapterIDs) > 0 && !chaptersSettled(chapterStates) {
			overlays, err := s.translations.ListChapterTranslations(ctx, chapterIDs, step)
			if err != nil {
				// A failing children batch degrades the whole view to base
				// fields rather than serving a half-translated work.
				s.logDegraded(work, step, err)
				workState.reset()
				resetChapters(chapterStates)
				break
			}
			applyChapterOverlays(chapterStates, overlays, step)
		}

		// The base record speaks for its own locale: once the chain reaches
		// it, base text settles any open field before later locales run.
		if step == workState.baseLocale {
			workState.applyBase()
			for _, state := range chapterStates {
				state.applyBase()
			}
		}
	}

	resolved := &reader.ResolvedWork{
		ID:          work.ID,
		Kind:        work.Kind,
		Slug:        work.Slug,
		CreatedAt:   work.CreatedAt,
		PublishedAt: work.PublishedAt,
		Projection:  workState.projection(requested),
		Chapters:    make([]reader.ResolvedChapter, len(chapters)),
	}
	for i, chapter := range chapters {
		resolved.Chapters[i] = reader.ResolvedChapter{
			ID:         chapter.ID,
			Ordinal:    chapter.Ordinal,
			Projection: chapterStates[i].projection(requested),
		}
		resolved.Chapters[i].Href = s.chapterHref(work, chapter.Ordinal, requested)
	}
	resolved.Href = s.workHref(work, requested)

	return resolved, nil
}

func (s *service) ResolveChapter(ctx context.Context, kind catalog.WorkKind, workID uuid.UUID, ordinal int, locale string) (*reader.ResolvedChapter, error) {
	if kind == "" {
		return nil, reader.ErrKindRequired
	}
	if workID == uuid.Nil {
		return nil, reader.ErrWorkIDRequired
	}

	work, err := s.works.GetByID(ctx, kind, workID)
	if err != nil {
		return nil, err
	}
	if !domain.Visible(domain.Status(work.Status), work.PublishedAt) {
		return nil, &reader.NotVisibleError{Kind: work.Kind, ID: work.ID}
	}

	chapter, err := s.chapters.GetByOrdinal(ctx, workID, ordinal)
	if err != nil {
		return nil, err
	}
	siblings, err := s.chapters.ListByWork(ctx, workID)
	if err != nil {
		return nil, err
	}

	requested := s.resolver.Normalize(locale)
	chain := s.chain(locale, work)

	state := newChapterState(chapter, s.baseLocale(work))
	for _, step := range chain {
		if state.settled() {
			break
		}
		overlays, err := s.translations.ListChapterTranslations(ctx, []uuid.UUID{chapter.ID}, step)
		if err != nil {
			s.logDegraded(work, step, err)
			state.reset()
			break
		}
		for _, overlay := range overlays {
			if overlay != nil && overlay.ChapterID == chapter.ID {
				state.apply(overlay, step)
			}
		}
		if step == state.baseLocale {
			state.applyBase()
		}
	}

	resolved := &reader.ResolvedChapter{
		ID:         chapter.ID,
		Ordinal:    chapter.Ordinal,
		Projection: state.projection(requested),
		Href:       s.chapterHref(work, chapter.Ordinal, requested),
	}
	resolved.Prev, resolved.Next = neighborOrdinals(siblings, chapter.Ordinal)

	return resolved, nil
}

func (s *service) ListPublished(ctx context.Context, kind catalog.WorkKind, locale string) ([]*reader.WorkSummary, error) {
	if kind == "" {
		return nil, reader.ErrKindRequired
	}

	works, err := s.works.ListPublished(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(works) == 0 {
		return []*reader.WorkSummary{}, nil
	}

	requested := s.resolver.Normalize(locale)
	chain := s.resolver.Chain(locale, "")

	states := make([]*workState, len(works))
	ids := make([]uuid.UUID, len(works))
	byID := make(map[uuid.UUID]*workState, len(works))
	for i, work := range works {
		states[i] = newWorkState(work, s.baseLocale(work))
		ids[i] = work.ID
		byID[work.ID] = states[i]
	}

	for _, step := range chain {
		if workStatesSettled(states) {
			break
		}
		overlays, err := s.translations.ListWorkTranslations(ctx, kind, ids, step)
		if err != nil {
			s.logger.Warn("translation lookup degraded",
				"kind", string(kind),
				"locale", step,
				"error", err,
			)
			for _, state := range states {
				state.reset()
			}
			break
		}
		for _, overlay := range overlays {
			if overlay == nil {
				continue
			}
			if state, ok := byID[overlay.WorkID]; ok {
				state.apply(overlay, step)
			}
		}
		for _, state := range states {
			if step == state.baseLocale {
				state.applyBase()
			}
		}
	}

	out := make([]*reader.WorkSummary, len(works))
	for i, work := range works {
		projection := states[i].projection(requested)
		projection.Body = nil // listings never carry bodies
		out[i] = &reader.WorkSummary{
			ID:         work.ID,
			Kind:       work.Kind,
			Slug:       work.Slug,
			CreatedAt:  work.CreatedAt,
			Projection: projection,
			Href:       s.workHref(work, requested),
		}
	}
	return out, nil
}

// chain computes the fallback chain for a request, honoring the work's own
// default locale when it has one.
func (s *service) chain(locale string, work *catalog.Work) []string {
	workDefault := ""
	if work.DefaultLocale != nil {
		workDefault = *work.DefaultLocale
	}
	return s.resolver.Chain(locale, workDefault)
}

// baseLocale names the language the base record is authored in: the work's
// own default when supported, the process default otherwise.
func (s *service) baseLocale(work *catalog.Work) string {
	if work.DefaultLocale != nil {
		if normalized := s.resolver.Normalize(*work.DefaultLocale); normalized != "" {
			return normalized
		}
	}
	return s.resolver.Default()
}

func (s *service) logDegraded(work *catalog.Work, locale string, err error) {
	s.logger.Warn("translation lookup degraded",
		"kind", string(work.Kind),
		"work_id", work.ID.String(),
		"locale", locale,
		"error", err,
	)
}

func (s *service) workHref(work *catalog.Work, locale string) string {
	if s.links == nil {
		return ""
	}
	if locale == "" {
		locale = s.resolver.Default()
	}
	href, err := s.links.WorkURL(work.Kind, work.Slug, locale)
	if err != nil {
		s.logger.Debug("work href skipped", "slug", work.Slug, "error", err)
		return ""
	}
	return href
}

func (s *service) chapterHref(work *catalog.Work, ordinal int, locale string) string {
	if s.links == nil {
		return ""
	}
	if locale == "" {
		locale = s.resolver.Default()
	}
	href, err := s.links.ChapterURL(work.Kind, work.Slug, ordinal, locale)
	if err != nil {
		s.logger.Debug("chapter href skipped", "slug", work.Slug, "ordinal", ordinal, "error", err)
		return ""
	}
	return href
}

func neighborOrdinals(siblings []*catalog.Chapter, ordinal int) (prev *int, next *int) {
	for _, sibling := range siblings {
		if sibling == nil {
			continue
		}
		if sibling.Ordinal < ordinal {
			if prev == nil || sibling.Ordinal > *prev {
				value := sibling.Ordinal
				prev = &value
			}
		}
		if sibling.Ordinal > ordinal {
			if next == nil || sibling.Ordinal < *next {
				value := sibling.Ordinal
				next = &value
			}
		}
	}
	return prev, next
}
