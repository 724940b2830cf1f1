package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-shelf/cmd/manuscripts/internal/bootstrap"
	"github.com/goliatone/go-shelf/internal/manuscripts"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("manuscripts import: %v", err)
	}
}

func runImport(args []string, out *os.File) error {
	fs := flag.NewFlagSet("manuscripts-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the manuscript content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering manuscript files")
	recursive := fs.Bool("recursive", true, "Walk subdirectories under the content root")
	locales := fs.String("locales", "", "Comma separated list of supported locales (defaults to config locales)")
	defaultLocale := fs.String("default-locale", "en", "Process-wide default locale")
	actor := fs.String("actor", "", "Principal ID recorded on imported rows")

	if err := fs.Parse(args); err != nil {
		return err
	}

	actorID, err := bootstrap.ParseUUID(*actor)
	if err != nil {
		return fmt.Errorf("parse actor: %w", err)
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     *recursive,
		DefaultLocale: *defaultLocale,
		Locales:       bootstrap.SplitLocales(*locales),
		Actor:         actorID,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	loader := manuscripts.NewLoader(os.DirFS(*contentDir), manuscripts.LoaderOptions{
		Pattern:   *pattern,
		Recursive: *recursive,
	})
	documents, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load manuscripts: %w", err)
	}

	report, err := module.Importer.Import(context.Background(), documents)
	if err != nil {
		return fmt.Errorf("import manuscripts: %w", err)
	}

	fmt.Fprintf(out, "works: %d created, %d updated, %d published\n", report.WorksCreated, report.WorksUpdated, report.WorksPublished)
	fmt.Fprintf(out, "chapters: %d created, %d updated\n", report.ChaptersCreated, report.ChaptersUpdated)
	fmt.Fprintf(out, "translations: %d upserted\n", report.TranslationsUpserted)
	for _, skipped := range report.Skipped {
		fmt.Fprintf(out, "skipped: %s\n", skipped)
	}

	return nil
}
