package shelf_test

import (
	"context"
	"errors"
	"testing"

	shelf "github.com/goliatone/go-shelf"
	"github.com/goliatone/go-shelf/catalog"
	"github.com/goliatone/go-shelf/reader"
)

func newModule(t *testing.T) *shelf.Module {
	t.Helper()
	module, err := shelf.New(shelf.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return module
}

func TestModulePublishAndResolveRoundTrip(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	work, err := module.Catalog().CreateWork(ctx, catalog.CreateWorkRequest{
		Kind:  "series",
		Title: "Neon Sky",
	})
	if err != nil {
		t.Fatalf("CreateWork: %v", err)
	}
	if _, err := module.Catalog().AddChapter(ctx, catalog.AddChapterRequest{
		Kind:    catalog.WorkKindSeries,
		WorkID:  work.ID,
		Ordinal: 1,
		Title:   strPtr("Arrival"),
	}); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}

	// Draft works stay invisible to readers.
	if _, err := module.Reader().ResolveWork(ctx, catalog.WorkKindSeries, work.ID, "en"); !errors.Is(err, reader.ErrNotVisible) {
		t.Fatalf("expected ErrNotVisible for a draft, got %v", err)
	}

	if _, err := module.Catalog().PublishWork(ctx, catalog.PublishWorkRequest{
		Kind:   catalog.WorkKindSeries,
		WorkID: work.ID,
	}); err != nil {
		t.Fatalf("PublishWork: %v", err)
	}

	resolved, err := module.Reader().ResolveWorkBySlug(ctx, catalog.WorkKindSeries, "neon-sky", "ko")
	if err != nil {
		t.Fatalf("ResolveWorkBySlug: %v", err)
	}
	if resolved.Projection.Title != "Neon Sky" {
		t.Fatalf("title = %q, want the base text without a Korean overlay", resolved.Projection.Title)
	}
	if !resolved.Projection.UsedFallback {
		t.Fatal("expected fallback to the base locale")
	}
	if len(resolved.Chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(resolved.Chapters))
	}
}

func TestModuleLocaleLookup(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	info, err := module.Locales().ResolveByCode(ctx, "ko")
	if err != nil {
		t.Fatalf("ResolveByCode: %v", err)
	}
	if info.Code != "ko" || info.IsDefault {
		t.Fatalf("unexpected locale info: %+v", info)
	}

	_, err = module.Locales().ResolveByCode(ctx, "fr")
	var notFound *shelf.LocaleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected LocaleNotFoundError, got %v", err)
	}
	if !errors.Is(err, shelf.ErrUnknownLocale) {
		t.Fatal("locale not-found errors must unwrap to ErrUnknownLocale")
	}

	if _, err := module.Locales().ResolveByCode(ctx, "  "); !errors.Is(err, shelf.ErrLocaleCodeRequired) {
		t.Fatalf("expected ErrLocaleCodeRequired, got %v", err)
	}
}

func TestModuleConfigValidation(t *testing.T) {
	if _, err := shelf.New(shelf.Config{}); err == nil {
		t.Fatal("expected a config validation error")
	}

	cfg := shelf.DefaultConfig()
	cfg.DefaultLocale = "fr"
	if _, err := shelf.New(cfg); !errors.Is(err, shelf.ErrDefaultLocaleUnsupported) {
		t.Fatalf("expected ErrDefaultLocaleUnsupported, got %v", err)
	}
}

func strPtr(value string) *string {
	return &value
}
