package bootstrap

import (
	"fmt"
	"strings"

	shelf "github.com/goliatone/go-shelf"
	"github.com/goliatone/go-shelf/internal/di"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/internal/manuscripts"
	"github.com/goliatone/go-shelf/pkg/interfaces"
	"github.com/google/uuid"
)

// Options captures configuration for manuscript CLI bootstraps.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	DefaultLocale  string
	Locales        []string
	Actor          uuid.UUID
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the shelf module and the configured importer/logger.
type Module struct {
	Module   *shelf.Module
	Importer *manuscripts.Importer
	Logger   interfaces.Logger
}

// BuildModule constructs a shelf module configured for manuscript operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := shelf.DefaultConfig()
	cfg.Features.Manuscripts = true
	cfg.Manuscripts.Enabled = true
	cfg.Manuscripts.ContentDir = strings.TrimSpace(opts.ContentDir)
	if cfg.Manuscripts.ContentDir == "" {
		cfg.Manuscripts.ContentDir = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Manuscripts.Pattern = trimmed
	}
	cfg.Manuscripts.Recursive = opts.Recursive

	defaultLocale := strings.TrimSpace(opts.DefaultLocale)
	if defaultLocale != "" {
		cfg.Manuscripts.DefaultLocale = defaultLocale
		cfg.DefaultLocale = defaultLocale
	}

	if len(opts.Locales) > 0 {
		cfg.Locales = cloneStrings(opts.Locales)
	}
	if !containsFold(cfg.Locales, cfg.DefaultLocale) {
		cfg.Locales = append(cfg.Locales, cfg.DefaultLocale)
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := shelf.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise shelf module: %w", err)
	}

	logger := logging.ManuscriptsLogger(module.Container().LoggerProvider())

	importerOpts := []manuscripts.ImporterOption{
		manuscripts.WithLogger(logger),
	}
	if opts.Actor != uuid.Nil {
		importerOpts = append(importerOpts, manuscripts.WithActor(opts.Actor))
	}
	importer := manuscripts.NewImporter(module.Catalog(), module.LocaleResolver(), importerOpts...)

	return &Module{
		Module:   module,
		Importer: importer,
		Logger:   logger,
	}, nil
}

// SplitLocales parses a comma separated locale list into a trimmed slice.
func SplitLocales(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	locales := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			locales = append(locales, trimmed)
		}
	}
	return locales
}

// ParseUUID converts the supplied string into a UUID, returning uuid.Nil when the input is empty.
func ParseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(trimmed)
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}
