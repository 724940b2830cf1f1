package manuscripts_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/identity"
	"github.com/goliatone/go-shelf/internal/locales"
	"github.com/goliatone/go-shelf/internal/manuscripts"
	readersvc "github.com/goliatone/go-shelf/internal/reader"
)

const workManifest = `---
type: work
kind: series
slug: neon-sky
title: Neon Sky
description: A city that never sleeps.
locale: en
status: published
translations:
  ko:
    title: 네온 스카이
---
`

const chapterOne = `---
type: chapter
kind: series
work: neon-sky
ordinal: 1
title: Arrival
---
The train slid into the city.
`

const chapterOneKorean = `---
type: chapter
kind: series
work: neon-sky
ordinal: 1
locale: ko
title: 도착
---
기차가 도시로 미끄러져 들어왔다.
`

type harness struct {
	works        *catalog.MemoryWorkRepository
	chapters     *catalog.MemoryChapterRepository
	translations *catalog.MemoryTranslationRepository
	catalog      catalog.Service
	resolver     *locales.Resolver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	resolver := locales.NewResolver("en", []string{"en", "ko", "mn", "ja"})
	works := catalog.NewMemoryWorkRepository()
	chapters := catalog.NewMemoryChapterRepository()
	translations := catalog.NewMemoryTranslationRepository()
	return &harness{
		works:        works,
		chapters:     chapters,
		translations: translations,
		resolver:     resolver,
		catalog: catalog.New(
			works,
			chapters,
			translations,
			catalog.NewMemoryLocaleRepository(),
			resolver,
			catalog.WithClock(func() time.Time {
				return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
			}),
		),
	}
}

func loadDocuments(t *testing.T, files map[string]string) []*manuscripts.Document {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content), ModTime: time.Now()}
	}
	loader := manuscripts.NewLoader(fsys, manuscripts.LoaderOptions{Pattern: "*.md", Recursive: true})
	documents, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return documents
}

func TestImporterSeedsCatalog(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	documents := loadDocuments(t, map[string]string{
		"neon-sky/index.md":      workManifest,
		"neon-sky/01-arrival.md": chapterOne,
		"neon-sky/01-ko.md":      chapterOneKorean,
	})

	importer := manuscripts.NewImporter(h.catalog, h.resolver)
	report, err := importer.Import(ctx, documents)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.WorksCreated != 1 || report.ChaptersCreated != 1 || report.WorksPublished != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	// Work-level Korean title plus the Korean chapter file.
	if report.TranslationsUpserted != 2 {
		t.Fatalf("expected 2 translations, got %d", report.TranslationsUpserted)
	}

	svc := readersvc.New(h.works, h.chapters, h.translations, h.resolver)
	resolved, err := svc.ResolveWorkBySlug(ctx, catalog.WorkKindSeries, "neon-sky", "ko")
	if err != nil {
		t.Fatalf("ResolveWorkBySlug: %v", err)
	}
	if resolved.Projection.Title != "네온 스카이" {
		t.Fatalf("title = %q, want the imported Korean overlay", resolved.Projection.Title)
	}
	if len(resolved.Chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(resolved.Chapters))
	}
	if resolved.Chapters[0].Projection.Title != "도착" {
		t.Fatalf("chapter title = %q, want Korean overlay", resolved.Chapters[0].Projection.Title)
	}
	if resolved.Chapters[0].Projection.Body == nil || !strings.Contains(*resolved.Chapters[0].Projection.Body, "기차가") {
		t.Fatalf("chapter body missing Korean text: %v", resolved.Chapters[0].Projection.Body)
	}
}

func TestImporterIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	documents := loadDocuments(t, map[string]string{
		"neon-sky/index.md":      workManifest,
		"neon-sky/01-arrival.md": chapterOne,
	})

	importer := manuscripts.NewImporter(h.catalog, h.resolver)
	if _, err := importer.Import(ctx, documents); err != nil {
		t.Fatalf("first import: %v", err)
	}

	report, err := importer.Import(ctx, documents)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if report.WorksCreated != 0 || report.ChaptersCreated != 0 {
		t.Fatalf("re-import must update, not duplicate: %+v", report)
	}
	if report.WorksUpdated != 1 || report.ChaptersUpdated != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	// Publication already converged on the first run.
	if report.WorksPublished != 0 {
		t.Fatalf("expected no republish, got %d", report.WorksPublished)
	}

	works, err := h.catalog.ListWorks(ctx, catalog.WorkKindSeries)
	if err != nil {
		t.Fatalf("ListWorks: %v", err)
	}
	if len(works) != 1 {
		t.Fatalf("expected a single work after re-import, got %d", len(works))
	}
}

func TestImporterAssignsDeterministicIDs(t *testing.T) {
	ctx := context.Background()
	files := map[string]string{
		"neon-sky/index.md":      workManifest,
		"neon-sky/01-arrival.md": chapterOne,
	}

	// Two independent catalogs seeded from the same tree converge on the same
	// identifiers.
	first := newHarness(t)
	if _, err := manuscripts.NewImporter(first.catalog, first.resolver).Import(ctx, loadDocuments(t, files)); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second := newHarness(t)
	if _, err := manuscripts.NewImporter(second.catalog, second.resolver).Import(ctx, loadDocuments(t, files)); err != nil {
		t.Fatalf("second import: %v", err)
	}

	workA, err := first.catalog.GetWorkBySlug(ctx, catalog.WorkKindSeries, "neon-sky")
	if err != nil {
		t.Fatalf("GetWorkBySlug: %v", err)
	}
	workB, err := second.catalog.GetWorkBySlug(ctx, catalog.WorkKindSeries, "neon-sky")
	if err != nil {
		t.Fatalf("GetWorkBySlug: %v", err)
	}
	if workA.ID != workB.ID {
		t.Fatalf("work IDs diverged: %s vs %s", workA.ID, workB.ID)
	}
	if workA.ID != identity.WorkUUID("series", "neon-sky") {
		t.Fatalf("work ID %s is not derived from (kind, slug)", workA.ID)
	}

	chaptersA, err := first.catalog.ListChapters(ctx, workA.ID)
	if err != nil {
		t.Fatalf("ListChapters: %v", err)
	}
	if len(chaptersA) != 1 || chaptersA[0].ID != identity.ChapterUUID(workA.ID, 1) {
		t.Fatalf("chapter ID not derived from (work, ordinal): %+v", chaptersA)
	}
}

func TestImporterSkipsOrphanTranslations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	documents := loadDocuments(t, map[string]string{
		"neon-sky/index.md": workManifest,
		"neon-sky/02-ko.md": strings.Replace(chapterOneKorean, "ordinal: 1", "ordinal: 2", 1),
	})

	importer := manuscripts.NewImporter(h.catalog, h.resolver)
	report, err := importer.Import(ctx, documents)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("expected one skipped document, got %v", report.Skipped)
	}
}

func TestLoaderRejectsInvalidFrontmatter(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.md": &fstest.MapFile{Data: []byte("---\ntype: chapter\nkind: series\n---\nbody\n")},
	}
	loader := manuscripts.NewLoader(fsys, manuscripts.LoaderOptions{})
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected schema validation failure for chapter without work/ordinal")
	}
}

func TestRendererProducesHTML(t *testing.T) {
	renderer := manuscripts.NewRenderer(manuscripts.RenderOptions{})
	out, err := renderer.Render([]byte("# Arrival\n\nThe *train* slid in.\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<em>train</em>") {
		t.Fatalf("unexpected html: %s", html)
	}
}
