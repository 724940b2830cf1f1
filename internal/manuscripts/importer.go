package manuscripts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/identity"
	"github.com/goliatone/go-shelf/internal/locales"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/interfaces"
	"github.com/google/uuid"
)

// Report summarizes one import run.
type Report struct {
	WorksCreated         int
	WorksUpdated         int
	WorksPublished       int
	ChaptersCreated      int
	ChaptersUpdated      int
	TranslationsUpserted int
	Skipped              []string
}

// Importer seeds the catalog from parsed manuscripts. Imports are idempotent:
// works match on (kind, slug), chapters on (work, ordinal), translations on
// their natural keys, so re-running an import converges instead of duplicating.
// Created rows carry identifiers derived from those same keys, so two catalogs
// seeded from the same content tree agree on IDs.
type Importer struct {
	catalog  catalog.Service
	resolver *locales.Resolver
	logger   interfaces.Logger
	actor    uuid.UUID
}

// ImporterOption customizes the importer.
type ImporterOption func(*Importer)

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithActor records imported rows as created/updated by the given principal.
func WithActor(actor uuid.UUID) ImporterOption {
	return func(i *Importer) {
		i.actor = actor
	}
}

// NewImporter constructs an importer over the catalog service.
func NewImporter(service catalog.Service, resolver *locales.Resolver, opts ...ImporterOption) *Importer {
	imp := &Importer{
		catalog:  service,
		resolver: resolver,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(imp)
		}
	}
	return imp
}

// Import applies the documents to the catalog: work manifests first so chapter
// files can always attach to their parent, regardless of file order.
func (i *Importer) Import(ctx context.Context, documents []*Document) (*Report, error) {
	report := &Report{}

	for _, doc := range documents {
		if doc == nil || doc.Type != DocumentTypeWork {
			continue
		}
		if err := i.importWork(ctx, doc, report); err != nil {
			return report, err
		}
	}

	for _, doc := range documents {
		if doc == nil || doc.Type != DocumentTypeChapter {
			continue
		}
		if err := i.importChapter(ctx, doc, report); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (i *Importer) importWork(ctx context.Context, doc *Document, report *Report) error {
	kind, ok := parseKind(doc.Kind)
	if !ok {
		return fmt.Errorf("manuscripts: %s: unknown work kind %q", doc.Path, doc.Kind)
	}

	work, err := i.catalog.GetWorkBySlug(ctx, kind, doc.Slug)
	switch {
	case errors.Is(err, catalog.ErrWorkNotFound):
		work, err = i.catalog.CreateWork(ctx, catalog.CreateWorkRequest{
			ID:            identity.WorkUUID(doc.Kind, doc.Slug),
			Kind:          doc.Kind,
			Slug:          doc.Slug,
			Title:         doc.Title,
			Description:   optionalText(doc.Description),
			DefaultLocale: optionalText(doc.Locale),
			CoverImageURL: optionalText(doc.Cover),
			CreatedBy:     i.actor,
		})
		if err != nil {
			return fmt.Errorf("manuscripts: %s: create work: %w", doc.Path, err)
		}
		report.WorksCreated++
	case err != nil:
		return fmt.Errorf("manuscripts: %s: lookup work: %w", doc.Path, err)
	default:
		work, err = i.catalog.UpdateWork(ctx, catalog.UpdateWorkRequest{
			Kind:          kind,
			WorkID:        work.ID,
			Title:         &doc.Title,
			Description:   optionalText(doc.Description),
			DefaultLocale: optionalText(doc.Locale),
			CoverImageURL: optionalText(doc.Cover),
			UpdatedBy:     i.actor,
		})
		if err != nil {
			return fmt.Errorf("manuscripts: %s: update work: %w", doc.Path, err)
		}
		report.WorksUpdated++
	}

	for locale, overlay := range doc.Translations {
		if _, err := i.catalog.UpsertWorkTranslation(ctx, catalog.UpsertWorkTranslationRequest{
			ID:          identity.TranslationUUID("work", work.ID, locale),
			Kind:        kind,
			WorkID:      work.ID,
			Locale:      locale,
			Title:       optionalText(overlay.Title),
			Description: optionalText(overlay.Description),
		}); err != nil {
			return fmt.Errorf("manuscripts: %s: upsert %s translation: %w", doc.Path, locale, err)
		}
		report.TranslationsUpserted++
	}

	if doc.Status == "published" || doc.Published != nil {
		_, err := i.catalog.PublishWork(ctx, catalog.PublishWorkRequest{
			Kind:        kind,
			WorkID:      work.ID,
			PublishedAt: doc.Published,
			PublishedBy: i.actor,
		})
		switch {
		case errors.Is(err, catalog.ErrAlreadyPublished):
			// converged on a prior run
		case err != nil:
			return fmt.Errorf("manuscripts: %s: publish work: %w", doc.Path, err)
		default:
			report.WorksPublished++
		}
	}

	return nil
}

func (i *Importer) importChapter(ctx context.Context, doc *Document, report *Report) error {
	kind, ok := parseKind(doc.Kind)
	if !ok {
		return fmt.Errorf("manuscripts: %s: unknown work kind %q", doc.Path, doc.Kind)
	}

	work, err := i.catalog.GetWorkBySlug(ctx, kind, doc.Work)
	if err != nil {
		return fmt.Errorf("manuscripts: %s: parent work %q: %w", doc.Path, doc.Work, err)
	}

	chapters, err := i.catalog.ListChapters(ctx, work.ID)
	if err != nil {
		return fmt.Errorf("manuscripts: %s: list chapters: %w", doc.Path, err)
	}
	var existing *catalog.Chapter
	for _, chapter := range chapters {
		if chapter.Ordinal == doc.Ordinal {
			existing = chapter
			break
		}
	}

	body := strings.TrimSpace(string(doc.Body))

	if i.isTranslation(work, doc.Locale) {
		if existing == nil {
			skip := fmt.Sprintf("%s: translation for missing chapter %d of %s", doc.Path, doc.Ordinal, doc.Work)
			report.Skipped = append(report.Skipped, skip)
			i.logger.Warn("manuscript skipped", "reason", skip)
			return nil
		}
		if _, err := i.catalog.UpsertChapterTranslation(ctx, catalog.UpsertChapterTranslationRequest{
			ID:        identity.TranslationUUID("chapter", existing.ID, doc.Locale),
			ChapterID: existing.ID,
			Locale:    doc.Locale,
			Title:     optionalText(doc.Title),
			Body:      optionalText(body),
		}); err != nil {
			return fmt.Errorf("manuscripts: %s: upsert chapter translation: %w", doc.Path, err)
		}
		report.TranslationsUpserted++
		return nil
	}

	if existing == nil {
		if _, err := i.catalog.AddChapter(ctx, catalog.AddChapterRequest{
			ID:      identity.ChapterUUID(work.ID, doc.Ordinal),
			Kind:    kind,
			WorkID:  work.ID,
			Ordinal: doc.Ordinal,
			Title:   optionalText(doc.Title),
			Body:    optionalText(body),
		}); err != nil {
			return fmt.Errorf("manuscripts: %s: add chapter: %w", doc.Path, err)
		}
		report.ChaptersCreated++
		return nil
	}

	if _, err := i.catalog.UpdateChapter(ctx, catalog.UpdateChapterRequest{
		ChapterID: existing.ID,
		Title:     optionalText(doc.Title),
		Body:      optionalText(body),
	}); err != nil {
		return fmt.Errorf("manuscripts: %s: update chapter: %w", doc.Path, err)
	}
	report.ChaptersUpdated++
	return nil
}

// isTranslation reports whether a chapter file's locale differs from the
// language its parent work is authored in.
func (i *Importer) isTranslation(work *catalog.Work, locale string) bool {
	if locale == "" {
		return false
	}
	normalized := i.resolver.Normalize(locale)
	if normalized == "" {
		return false
	}

	base := i.resolver.Default()
	if work.DefaultLocale != nil {
		if workBase := i.resolver.Normalize(*work.DefaultLocale); workBase != "" {
			base = workBase
		}
	}
	return normalized != base
}

func parseKind(raw string) (catalog.WorkKind, bool) {
	switch catalog.WorkKind(raw) {
	case catalog.WorkKindSeries:
		return catalog.WorkKindSeries, true
	case catalog.WorkKindBook:
		return catalog.WorkKindBook, true
	default:
		return "", false
	}
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
