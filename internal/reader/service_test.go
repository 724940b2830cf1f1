package reader_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/locales"
	readersvc "github.com/goliatone/go-shelf/internal/reader"
	"github.com/goliatone/go-shelf/reader"
	"github.com/google/uuid"
)

type fixture struct {
	catalog      catalog.Service
	works        *catalog.MemoryWorkRepository
	chapters     *catalog.MemoryChapterRepository
	translations *countingTranslationStore
	resolver     *locales.Resolver
}

// countingTranslationStore wraps the memory store so tests can assert how many
// translation lookups a resolution issued, or force lookups to fail.
type countingTranslationStore struct {
	*catalog.MemoryTranslationRepository
	workCalls    int
	chapterCalls int
	failWork     bool
	failChapter  bool
}

func (c *countingTranslationStore) ListWorkTranslations(ctx context.Context, kind catalog.WorkKind, workIDs []uuid.UUID, locale string) ([]*catalog.WorkTranslation, error) {
	c.workCalls++
	if c.failWork {
		return nil, fmt.Errorf("translation store unavailable")
	}
	return c.MemoryTranslationRepository.ListWorkTranslations(ctx, kind, workIDs, locale)
}

func (c *countingTranslationStore) ListChapterTranslations(ctx context.Context, chapterIDs []uuid.UUID, locale string) ([]*catalog.ChapterTranslation, error) {
	c.chapterCalls++
	if c.failChapter {
		return nil, fmt.Errorf("translation store unavailable")
	}
	return c.MemoryTranslationRepository.ListChapterTranslations(ctx, chapterIDs, locale)
}

func (c *countingTranslationStore) translationCalls() int {
	return c.workCalls + c.chapterCalls
}

func newFixture(t *testing.T) (*fixture, reader.Service) {
	t.Helper()

	resolver := locales.NewResolver("en", []string{"en", "ko", "mn", "ja"})
	works := catalog.NewMemoryWorkRepository()
	chapters := catalog.NewMemoryChapterRepository()
	translations := &countingTranslationStore{
		MemoryTranslationRepository: catalog.NewMemoryTranslationRepository(),
	}

	editorial := catalog.New(
		works,
		chapters,
		translations.MemoryTranslationRepository,
		catalog.NewMemoryLocaleRepository(),
		resolver,
		catalog.WithClock(func() time.Time {
			return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
		}),
	)

	svc := readersvc.New(works, chapters, translations, resolver)

	return &fixture{
		catalog:      editorial,
		works:        works,
		chapters:     chapters,
		translations: translations,
		resolver:     resolver,
	}, svc
}

func strPtr(s string) *string { return &s }

// seedNeonSky builds the canonical fixture: a published series authored in
// English with a Korean title overlay and two chapters, the first of which has
// Korean text.
func seedNeonSky(t *testing.T, fx *fixture) *catalog.Work {
	t.Helper()
	ctx := context.Background()

	work, err := fx.catalog.CreateWork(ctx, catalog.CreateWorkRequest{
		Kind:          "series",
		Title:         "Neon Sky",
		Description:   strPtr("A city that never sleeps."),
		DefaultLocale: strPtr("en"),
	})
	if err != nil {
		t.Fatalf("CreateWork: %v", err)
	}

	if _, err := fx.catalog.UpsertWorkTranslation(ctx, catalog.UpsertWorkTranslationRequest{
		Kind:   catalog.WorkKindSeries,
		WorkID: work.ID,
		Locale: "ko",
		Title:  strPtr("네온 스카이"),
	}); err != nil {
		t.Fatalf("UpsertWorkTranslation: %v", err)
	}

	first, err := fx.catalog.AddChapter(ctx, catalog.AddChapterRequest{
		Kind: catalog.WorkKindSeries, WorkID: work.ID, Ordinal: 1,
		Title: strPtr("Arrival"), Body: strPtr("The train slid into the city."),
	})
	if err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	if _, err := fx.catalog.AddChapter(ctx, catalog.AddChapterRequest{
		Kind: catalog.WorkKindSeries, WorkID: work.ID, Ordinal: 2,
		Title: strPtr("Static"), Body: strPtr("Rain again."),
	}); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}

	if _, err := fx.catalog.UpsertChapterTranslation(ctx, catalog.UpsertChapterTranslationRequest{
		ChapterID: first.ID, Locale: "ko",
		Title: strPtr("도착"), Body: strPtr("기차가 도시로 미끄러져 들어왔다."),
	}); err != nil {
		t.Fatalf("UpsertChapterTranslation: %v", err)
	}

	published, err := fx.catalog.PublishWork(ctx, catalog.PublishWorkRequest{Kind: catalog.WorkKindSeries, WorkID: work.ID})
	if err != nil {
		t.Fatalf("PublishWork: %v", err)
	}
	return published
}

func TestGateRunsBeforeTranslationLookups(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()

	draft, err := fx.catalog.CreateWork(ctx, catalog.CreateWorkRequest{Kind: "series", Title: "Hidden Draft"})
	if err != nil {
		t.Fatalf("CreateWork: %v", err)
	}

	_, err = svc.ResolveWork(ctx, catalog.WorkKindSeries, draft.ID, "ko")
	if !errors.Is(err, reader.ErrNotVisible) {
		t.Fatalf("expected ErrNotVisible, got %v", err)
	}
	if calls := fx.translations.translationCalls(); calls != 0 {
		t.Fatalf("gate rejection must short-circuit: %d translation lookups issued", calls)
	}

	var notVisible *reader.NotVisibleError
	if !errors.As(err, &notVisible) {
		t.Fatalf("expected NotVisibleError, got %T", err)
	}
	if notVisible.ID != draft.ID {
		t.Fatalf("NotVisibleError carries %s, want %s", notVisible.ID, draft.ID)
	}
}

func TestNotFoundStaysDistinctFromNotVisible(t *testing.T) {
	_, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, uuid.New(), "en")
	if !errors.Is(err, catalog.ErrWorkNotFound) {
		t.Fatalf("expected ErrWorkNotFound, got %v", err)
	}
	if errors.Is(err, reader.ErrNotVisible) {
		t.Fatal("missing works must not read as gated works")
	}
}

func TestResolveWorkTranslated(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	resolved, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "ko")
	if err != nil {
		t.Fatalf("ResolveWork: %v", err)
	}

	if resolved.Projection.Title != "네온 스카이" {
		t.Fatalf("title = %q, want the Korean overlay", resolved.Projection.Title)
	}
	if resolved.Projection.SourceLocale != "ko" {
		t.Fatalf("source locale = %q, want ko", resolved.Projection.SourceLocale)
	}
	if resolved.Projection.UsedFallback {
		t.Fatal("request satisfied in the requested locale must not count as fallback")
	}
	// The Korean overlay has no description, so that field merges from base.
	if resolved.Projection.Description == nil || *resolved.Projection.Description != "A city that never sleeps." {
		t.Fatalf("description = %v, want base text", resolved.Projection.Description)
	}

	if len(resolved.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(resolved.Chapters))
	}
	if resolved.Chapters[0].Projection.Title != "도착" {
		t.Fatalf("chapter 1 title = %q, want Korean overlay", resolved.Chapters[0].Projection.Title)
	}
	if resolved.Chapters[0].Projection.UsedFallback {
		t.Fatal("chapter 1 resolved in the requested locale")
	}
	// Chapter 2 has no Korean text and falls back to base English.
	if resolved.Chapters[1].Projection.Title != "Static" {
		t.Fatalf("chapter 2 title = %q, want base text", resolved.Chapters[1].Projection.Title)
	}
	if !resolved.Chapters[1].Projection.UsedFallback {
		t.Fatal("chapter 2 fell back and must say so")
	}
}

func TestResolveWorkUnsupportedLocaleFallsBack(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	resolved, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "fr")
	if err != nil {
		t.Fatalf("ResolveWork: %v", err)
	}
	if resolved.Projection.Title != "Neon Sky" {
		t.Fatalf("title = %q, want base text", resolved.Projection.Title)
	}
	if resolved.Projection.SourceLocale != "en" {
		t.Fatalf("source locale = %q, want en", resolved.Projection.SourceLocale)
	}
	if !resolved.Projection.UsedFallback {
		t.Fatal("unsupported locale must always count as fallback")
	}
}

func TestResolveWorkRegionVariantCollapses(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	resolved, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "ko-KR")
	if err != nil {
		t.Fatalf("ResolveWork: %v", err)
	}
	if resolved.Projection.Title != "네온 스카이" {
		t.Fatalf("title = %q, want the Korean overlay", resolved.Projection.Title)
	}
	if resolved.Projection.UsedFallback {
		t.Fatal("ko-KR normalizes to ko and must not count as fallback")
	}
}

func TestBlankTranslationFieldsFallThrough(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	// Whitespace-only text must read as absent, not as an empty title.
	if _, err := fx.catalog.UpsertWorkTranslation(ctx, catalog.UpsertWorkTranslationRequest{
		Kind: catalog.WorkKindSeries, WorkID: work.ID, Locale: "mn",
		Title:       strPtr("   "),
		Description: strPtr("Хотын тухай түүх."),
	}); err != nil {
		t.Fatalf("UpsertWorkTranslation: %v", err)
	}

	resolved, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "mn")
	if err != nil {
		t.Fatalf("ResolveWork: %v", err)
	}
	if resolved.Projection.Title != "Neon Sky" {
		t.Fatalf("title = %q, blank overlay text must fall through", resolved.Projection.Title)
	}
	if resolved.Projection.SourceLocale != "en" {
		t.Fatalf("source locale = %q, want en", resolved.Projection.SourceLocale)
	}
	if !resolved.Projection.UsedFallback {
		t.Fatal("title fell back and must say so")
	}
	// Description still comes from the Mongolian row: fields merge independently.
	if resolved.Projection.Description == nil || *resolved.Projection.Description != "Хотын тухай түүх." {
		t.Fatalf("description = %v, want the Mongolian overlay", resolved.Projection.Description)
	}
}

func TestBaseTextOutranksLaterChainTranslations(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()

	// Base record authored in Korean, English overlay on top. A Japanese
	// request walks ja -> ko (work default) -> en; the Korean base text must
	// win before the chain ever reaches the English overlay.
	work, err := fx.catalog.CreateWork(ctx, catalog.CreateWorkRequest{
		Kind:          "series",
		Title:         "네온 스카이",
		DefaultLocale: strPtr("ko"),
	})
	if err != nil {
		t.Fatalf("CreateWork: %v", err)
	}
	if _, err := fx.catalog.UpsertWorkTranslation(ctx, catalog.UpsertWorkTranslationRequest{
		Kind: catalog.WorkKindSeries, WorkID: work.ID, Locale: "en",
		Title: strPtr("Neon Sky"),
	}); err != nil {
		t.Fatalf("UpsertWorkTranslation: %v", err)
	}
	if _, err := fx.catalog.PublishWork(ctx, catalog.PublishWorkRequest{Kind: catalog.WorkKindSeries, WorkID: work.ID}); err != nil {
		t.Fatalf("PublishWork: %v", err)
	}

	resolved, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "ja")
	if err != nil {
		t.Fatalf("ResolveWork: %v", err)
	}
	if resolved.Projection.Title != "네온 스카이" {
		t.Fatalf("title = %q, want the Korean base text", resolved.Projection.Title)
	}
	if resolved.Projection.SourceLocale != "ko" {
		t.Fatalf("source locale = %q, want ko", resolved.Projection.SourceLocale)
	}
	if !resolved.Projection.UsedFallback {
		t.Fatal("ja request served in ko must count as fallback")
	}
}

func TestResolveChapterBaseTextOutranksLaterChain(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	// Chapter 1 carries a Korean overlay, but an unsupported request resolves
	// through the English base step first.
	resolved, err := svc.ResolveChapter(ctx, catalog.WorkKindSeries, work.ID, 1, "fr")
	if err != nil {
		t.Fatalf("ResolveChapter: %v", err)
	}
	if resolved.Projection.Title != "Arrival" {
		t.Fatalf("title = %q, want the English base text", resolved.Projection.Title)
	}
	if resolved.Projection.SourceLocale != "en" {
		t.Fatalf("source locale = %q, want en", resolved.Projection.SourceLocale)
	}
}

func TestTranslationFailureDegradesToBase(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	fx.translations.failChapter = true

	resolved, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "ko")
	if err != nil {
		t.Fatalf("translation failures must degrade, not propagate: %v", err)
	}
	// The whole view degrades together: the parent overlay is dropped too so
	// readers never see a half-translated work.
	if resolved.Projection.Title != "Neon Sky" {
		t.Fatalf("title = %q, want base text after degradation", resolved.Projection.Title)
	}
	for _, chapter := range resolved.Chapters {
		if chapter.Projection.SourceLocale != "en" {
			t.Fatalf("chapter %d source locale = %q, want en", chapter.Ordinal, chapter.Projection.SourceLocale)
		}
	}
}

func TestResolveWorkIdempotent(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	first, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "ko")
	if err != nil {
		t.Fatalf("ResolveWork: %v", err)
	}
	second, err := svc.ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "ko")
	if err != nil {
		t.Fatalf("ResolveWork: %v", err)
	}
	if first.Projection.Title != second.Projection.Title ||
		first.Projection.SourceLocale != second.Projection.SourceLocale ||
		first.Projection.UsedFallback != second.Projection.UsedFallback {
		t.Fatalf("resolution must be deterministic: %+v vs %+v", first.Projection, second.Projection)
	}
	if (first.Projection.Description == nil) != (second.Projection.Description == nil) {
		t.Fatal("description presence changed between identical resolutions")
	}
	if first.Projection.Description != nil && *first.Projection.Description != *second.Projection.Description {
		t.Fatalf("description changed between identical resolutions")
	}
}

func TestResolveChapterNeighbors(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	// Ordinals do not have to be contiguous.
	if _, err := fx.catalog.AddChapter(ctx, catalog.AddChapterRequest{
		Kind: catalog.WorkKindSeries, WorkID: work.ID, Ordinal: 5, Title: strPtr("Skip"),
	}); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}

	resolved, err := svc.ResolveChapter(ctx, catalog.WorkKindSeries, work.ID, 2, "en")
	if err != nil {
		t.Fatalf("ResolveChapter: %v", err)
	}
	if resolved.Prev == nil || *resolved.Prev != 1 {
		t.Fatalf("prev = %v, want 1", resolved.Prev)
	}
	if resolved.Next == nil || *resolved.Next != 5 {
		t.Fatalf("next = %v, want 5", resolved.Next)
	}

	if _, err := svc.ResolveChapter(ctx, catalog.WorkKindSeries, work.ID, 3, "en"); !errors.Is(err, catalog.ErrChapterNotFound) {
		t.Fatalf("expected ErrChapterNotFound for a gap ordinal, got %v", err)
	}
}

func TestResolveChapterGateStillApplies(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	work := seedNeonSky(t, fx)

	if _, err := fx.catalog.UnpublishWork(ctx, catalog.UnpublishWorkRequest{Kind: catalog.WorkKindSeries, WorkID: work.ID}); err != nil {
		t.Fatalf("UnpublishWork: %v", err)
	}
	fx.translations.workCalls = 0
	fx.translations.chapterCalls = 0

	if _, err := svc.ResolveChapter(ctx, catalog.WorkKindSeries, work.ID, 1, "ko"); !errors.Is(err, reader.ErrNotVisible) {
		t.Fatalf("expected ErrNotVisible, got %v", err)
	}
	if calls := fx.translations.translationCalls(); calls != 0 {
		t.Fatalf("gate rejection must short-circuit: %d translation lookups issued", calls)
	}
}

func TestListPublishedFiltersAndLocalizes(t *testing.T) {
	fx, svc := newFixture(t)
	ctx := context.Background()
	published := seedNeonSky(t, fx)

	if _, err := fx.catalog.CreateWork(ctx, catalog.CreateWorkRequest{Kind: "series", Title: "Unfinished"}); err != nil {
		t.Fatalf("CreateWork: %v", err)
	}

	summaries, err := svc.ListPublished(ctx, catalog.WorkKindSeries, "ko")
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected only the published work, got %d entries", len(summaries))
	}
	if summaries[0].ID != published.ID {
		t.Fatalf("listed %s, want %s", summaries[0].ID, published.ID)
	}
	if summaries[0].Projection.Title != "네온 스카이" {
		t.Fatalf("title = %q, want the Korean overlay", summaries[0].Projection.Title)
	}
	if summaries[0].Projection.Body != nil {
		t.Fatal("listings must not carry bodies")
	}
}
