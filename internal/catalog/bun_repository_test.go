package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/identity"
	"github.com/goliatone/go-shelf/pkg/testsupport"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	bunDB := testsupport.NewBunSQLiteDB(t)

	ctx := context.Background()
	models := []any{
		(*catalog.Locale)(nil),
		(*catalog.Work)(nil),
		(*catalog.Chapter)(nil),
		(*catalog.WorkTranslation)(nil),
		(*catalog.ChapterTranslation)(nil),
	}
	for _, model := range models {
		if _, err := bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table for %T: %v", model, err)
		}
	}
	return bunDB
}

func newWorkRecord(kind catalog.WorkKind, slug, title string) *catalog.Work {
	now := time.Now().UTC()
	return &catalog.Work{
		ID:        uuid.New(),
		Kind:      kind,
		Slug:      slug,
		Title:     title,
		Status:    "draft",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestBunWorkRepositoryScopesByKind(t *testing.T) {
	db := newTestDB(t)
	repo := catalog.NewBunWorkRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newWorkRecord(catalog.WorkKindSeries, "neon-sky", "Neon Sky"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetBySlug(ctx, catalog.WorkKindSeries, "neon-sky")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("id = %s, want %s", got.ID, created.ID)
	}

	// The same slug under the other kind reads as missing.
	if _, err := repo.GetBySlug(ctx, catalog.WorkKindBook, "neon-sky"); !errors.Is(err, catalog.ErrWorkNotFound) {
		t.Fatalf("expected ErrWorkNotFound for the book kind, got %v", err)
	}
	if _, err := repo.GetByID(ctx, catalog.WorkKindBook, created.ID); !errors.Is(err, catalog.ErrWorkNotFound) {
		t.Fatalf("expected ErrWorkNotFound for the book kind, got %v", err)
	}
}

func TestBunWorkRepositoryListPublishedGate(t *testing.T) {
	db := newTestDB(t)
	repo := catalog.NewBunWorkRepository(db)
	ctx := context.Background()

	draft := newWorkRecord(catalog.WorkKindSeries, "draft-only", "Draft Only")
	if _, err := repo.Create(ctx, draft); err != nil {
		t.Fatalf("Create draft: %v", err)
	}

	published := newWorkRecord(catalog.WorkKindSeries, "published", "Published")
	published.Status = "published"
	if _, err := repo.Create(ctx, published); err != nil {
		t.Fatalf("Create published: %v", err)
	}

	// Legacy rows may carry a timestamp without the status flip; both forms
	// count as visible.
	legacy := newWorkRecord(catalog.WorkKindSeries, "legacy", "Legacy")
	publishedAt := time.Now().UTC().Add(-time.Hour)
	legacy.PublishedAt = &publishedAt
	if _, err := repo.Create(ctx, legacy); err != nil {
		t.Fatalf("Create legacy: %v", err)
	}

	records, err := repo.ListPublished(ctx, catalog.WorkKindSeries)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 visible works, got %d", len(records))
	}
	for _, record := range records {
		if record.Slug == "draft-only" {
			t.Fatal("draft must not appear in the published listing")
		}
	}
}

func TestBunWorkRepositoryUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	works := catalog.NewBunWorkRepository(db)
	chapters := catalog.NewBunChapterRepository(db)
	translations := catalog.NewBunTranslationRepository(db)
	ctx := context.Background()

	work, err := works.Create(ctx, newWorkRecord(catalog.WorkKindSeries, "neon-sky", "Neon Sky"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	work.Title = "Neon Sky, Revised"
	work.UpdatedAt = time.Now().UTC()
	updated, err := works.Update(ctx, work)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Neon Sky, Revised" {
		t.Fatalf("title = %q after update", updated.Title)
	}

	chapter := &catalog.Chapter{
		ID:        uuid.New(),
		WorkID:    work.ID,
		Ordinal:   1,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := chapters.Create(ctx, chapter); err != nil {
		t.Fatalf("Create chapter: %v", err)
	}
	if _, err := translations.UpsertChapterTranslation(ctx, &catalog.ChapterTranslation{
		ID:        uuid.New(),
		ChapterID: chapter.ID,
		Locale:    "ko",
		Title:     strPtr("도착"),
	}); err != nil {
		t.Fatalf("UpsertChapterTranslation: %v", err)
	}

	if err := works.Delete(ctx, work.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The cascade removed children and overlays with the parent.
	if _, err := chapters.GetByID(ctx, chapter.ID); !errors.Is(err, catalog.ErrChapterNotFound) {
		t.Fatalf("expected the chapter to be gone, got %v", err)
	}
	remaining, err := translations.ListChapterTranslations(ctx, []uuid.UUID{chapter.ID}, "ko")
	if err != nil {
		t.Fatalf("ListChapterTranslations: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no chapter translations after delete, got %d", len(remaining))
	}

	if err := works.Delete(ctx, work.ID); !errors.Is(err, catalog.ErrWorkNotFound) {
		t.Fatalf("expected ErrWorkNotFound on repeated delete, got %v", err)
	}
}

func TestBunChapterRepositoryOrdinalLookups(t *testing.T) {
	db := newTestDB(t)
	works := catalog.NewBunWorkRepository(db)
	chapters := catalog.NewBunChapterRepository(db)
	ctx := context.Background()

	work, err := works.Create(ctx, newWorkRecord(catalog.WorkKindSeries, "neon-sky", "Neon Sky"))
	if err != nil {
		t.Fatalf("Create work: %v", err)
	}

	for _, ordinal := range []int{5, 1, 2} {
		if _, err := chapters.Create(ctx, &catalog.Chapter{
			ID:        uuid.New(),
			WorkID:    work.ID,
			Ordinal:   ordinal,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("Create chapter %d: %v", ordinal, err)
		}
	}

	listed, err := chapters.ListByWork(ctx, work.ID)
	if err != nil {
		t.Fatalf("ListByWork: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(listed))
	}
	for i, want := range []int{1, 2, 5} {
		if listed[i].Ordinal != want {
			t.Fatalf("chapter %d ordinal = %d, want %d", i, listed[i].Ordinal, want)
		}
	}

	got, err := chapters.GetByOrdinal(ctx, work.ID, 2)
	if err != nil {
		t.Fatalf("GetByOrdinal: %v", err)
	}
	if got.Ordinal != 2 {
		t.Fatalf("ordinal = %d, want 2", got.Ordinal)
	}

	// Gaps in the ordinal sequence are not an error; the missing slot is.
	if _, err := chapters.GetByOrdinal(ctx, work.ID, 3); !errors.Is(err, catalog.ErrChapterNotFound) {
		t.Fatalf("expected ErrChapterNotFound for a gap ordinal, got %v", err)
	}
}

func TestBunTranslationRepositoryUpsertAndDelete(t *testing.T) {
	db := newTestDB(t)
	works := catalog.NewBunWorkRepository(db)
	translations := catalog.NewBunTranslationRepository(db)
	ctx := context.Background()

	work, err := works.Create(ctx, newWorkRecord(catalog.WorkKindSeries, "neon-sky", "Neon Sky"))
	if err != nil {
		t.Fatalf("Create work: %v", err)
	}

	first, err := translations.UpsertWorkTranslation(ctx, &catalog.WorkTranslation{
		ID:     uuid.New(),
		WorkID: work.ID,
		Kind:   catalog.WorkKindSeries,
		Locale: "ko",
		Title:  strPtr("네온 스카이"),
	})
	if err != nil {
		t.Fatalf("UpsertWorkTranslation: %v", err)
	}

	second, err := translations.UpsertWorkTranslation(ctx, &catalog.WorkTranslation{
		ID:     uuid.New(),
		WorkID: work.ID,
		Kind:   catalog.WorkKindSeries,
		Locale: "ko",
		Title:  strPtr("네온 스카이 2판"),
	})
	if err != nil {
		t.Fatalf("second UpsertWorkTranslation: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert must replace in place, got new id %s", second.ID)
	}

	listed, err := translations.ListWorkTranslations(ctx, catalog.WorkKindSeries, []uuid.UUID{work.ID}, "ko")
	if err != nil {
		t.Fatalf("ListWorkTranslations: %v", err)
	}
	if len(listed) != 1 || listed[0].Title == nil || *listed[0].Title != "네온 스카이 2판" {
		t.Fatalf("unexpected listing: %+v", listed)
	}

	if err := translations.DeleteWorkTranslation(ctx, catalog.WorkKindSeries, work.ID, "ko"); err != nil {
		t.Fatalf("DeleteWorkTranslation: %v", err)
	}
	if err := translations.DeleteWorkTranslation(ctx, catalog.WorkKindSeries, work.ID, "ko"); !errors.Is(err, catalog.ErrTranslationNotFound) {
		t.Fatalf("expected ErrTranslationNotFound on repeated delete, got %v", err)
	}
}

func TestBunLocaleRepositoryUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := catalog.NewBunLocaleRepository(db)
	ctx := context.Background()

	record := &catalog.Locale{
		ID:       identity.LocaleUUID("ko"),
		Code:     "ko",
		Display:  "Korean",
		IsActive: true,
	}
	if _, err := repo.Upsert(ctx, record); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	record.Display = "한국어"
	if _, err := repo.Upsert(ctx, record); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := repo.GetByCode(ctx, "ko")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.ID != identity.LocaleUUID("ko") {
		t.Fatalf("id = %s, want the code-derived identifier", got.ID)
	}
	if got.Display != "한국어" {
		t.Fatalf("display = %q, want the upserted value", got.Display)
	}

	if _, err := repo.GetByCode(ctx, "fr"); !errors.Is(err, catalog.ErrUnknownLocale) {
		t.Fatalf("expected ErrUnknownLocale, got %v", err)
	}
}
