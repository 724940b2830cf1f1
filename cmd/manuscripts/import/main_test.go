package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-shelf/catalog"
	"github.com/goliatone/go-shelf/cmd/manuscripts/internal/bootstrap"
)

const workFixture = `---
type: work
kind: series
slug: neon-sky
title: Neon Sky
status: published
---
`

const chapterFixture = `---
type: chapter
kind: series
work: neon-sky
ordinal: 1
title: Arrival
---
The train slid into the city.
`

func TestRunImportSeedsCatalog(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.md"), []byte(workFixture), 0o644); err != nil {
		t.Fatalf("write work fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "01-arrival.md"), []byte(chapterFixture), 0o644); err != nil {
		t.Fatalf("write chapter fixture: %v", err)
	}

	var captured *bootstrap.Module
	original := moduleBuilder
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		module, err := bootstrap.BuildModule(opts)
		captured = module
		return module, err
	}
	t.Cleanup(func() {
		moduleBuilder = original
	})

	if err := runImport([]string{"-content-dir", dir}, os.Stdout); err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if captured == nil {
		t.Fatal("module builder was not invoked")
	}

	ctx := context.Background()
	work, err := captured.Module.Catalog().GetWorkBySlug(ctx, catalog.WorkKindSeries, "neon-sky")
	if err != nil {
		t.Fatalf("GetWorkBySlug: %v", err)
	}
	if work.Status != "published" {
		t.Fatalf("status = %q, want published", work.Status)
	}

	chapters, err := captured.Module.Catalog().ListChapters(ctx, work.ID)
	if err != nil {
		t.Fatalf("ListChapters: %v", err)
	}
	if len(chapters) != 1 || chapters[0].Ordinal != 1 {
		t.Fatalf("unexpected chapters: %+v", chapters)
	}
}

func TestRunImportRejectsBadActor(t *testing.T) {
	if err := runImport([]string{"-actor", "not-a-uuid"}, os.Stdout); err == nil {
		t.Fatal("expected an error for a malformed actor id")
	}
}
