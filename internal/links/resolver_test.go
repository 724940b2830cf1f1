package links_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/links"
	urlkit "github.com/goliatone/go-urlkit"
)

func newTestManager() *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "reader",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"work":    "/:locale/:kind/:slug",
					"chapter": "/:locale/:kind/:slug/:ordinal",
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: "ko",
						Path: "/ko",
						Paths: map[string]string{
							"work":    "/:kind/:slug",
							"chapter": "/:kind/:slug/:ordinal",
						},
					},
				},
			},
		},
	})
}

func TestResolverBuildsWorkAndChapterURLs(t *testing.T) {
	resolver := links.NewResolver(links.ResolverOptions{
		Manager:      newTestManager(),
		DefaultGroup: "reader",
	})

	workURL, err := resolver.WorkURL(catalog.WorkKindSeries, "neon-sky", "en")
	if err != nil {
		t.Fatalf("WorkURL: %v", err)
	}
	if !strings.Contains(workURL, "/en/series/neon-sky") {
		t.Fatalf("work url = %q, want locale, kind and slug segments", workURL)
	}

	chapterURL, err := resolver.ChapterURL(catalog.WorkKindSeries, "neon-sky", 2, "en")
	if err != nil {
		t.Fatalf("ChapterURL: %v", err)
	}
	if !strings.Contains(chapterURL, "/en/series/neon-sky/2") {
		t.Fatalf("chapter url = %q, want ordinal segment", chapterURL)
	}
}

func TestResolverLocaleGroups(t *testing.T) {
	resolver := links.NewResolver(links.ResolverOptions{
		Manager:      newTestManager(),
		DefaultGroup: "reader",
		LocaleGroups: map[string]string{
			"ko": "reader.ko",
		},
	})

	url, err := resolver.WorkURL(catalog.WorkKindBook, "neon-sky", "ko")
	if err != nil {
		t.Fatalf("WorkURL: %v", err)
	}
	if !strings.Contains(url, "/ko/book/neon-sky") {
		t.Fatalf("work url = %q, want the Korean group's layout", url)
	}
}

func TestResolverUnknownRouteReturnsError(t *testing.T) {
	resolver := links.NewResolver(links.ResolverOptions{
		Manager:      newTestManager(),
		DefaultGroup: "reader",
		WorkRoute:    "missing-route",
	})

	url, err := resolver.WorkURL(catalog.WorkKindSeries, "neon-sky", "en")
	if err == nil {
		t.Fatalf("expected an error for an unconfigured route, got url %q", url)
	}
	if !strings.Contains(err.Error(), "missing-route") {
		t.Fatalf("error %q should name the missing route", err)
	}
}

func TestResolverUnknownGroupReturnsError(t *testing.T) {
	resolver := links.NewResolver(links.ResolverOptions{
		Manager:      newTestManager(),
		DefaultGroup: "nope",
	})

	if _, err := resolver.WorkURL(catalog.WorkKindSeries, "neon-sky", "en"); err == nil {
		t.Fatal("expected an error for an unknown route group")
	}
}

func TestResolverWithoutManagerStaysSilent(t *testing.T) {
	resolver := links.NewResolver(links.ResolverOptions{})

	url, err := resolver.WorkURL(catalog.WorkKindSeries, "neon-sky", "en")
	if err != nil {
		t.Fatalf("WorkURL: %v", err)
	}
	if url != "" {
		t.Fatalf("expected empty url without a route manager, got %q", url)
	}
}
