package runtimeconfig

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	urlkit "github.com/goliatone/go-urlkit"
)

// ErrDefaultLocaleRequired indicates the process-wide default locale is missing.
var ErrDefaultLocaleRequired = errors.New("shelf config: default locale is required")

// ErrDefaultLocaleUnsupported indicates the default locale is not part of the supported set.
var ErrDefaultLocaleUnsupported = errors.New("shelf config: default locale must be one of the supported locales")

// ErrLocalesRequired indicates the supported locale set is empty.
var ErrLocalesRequired = errors.New("shelf config: at least one supported locale is required")

// ErrLoggingProviderUnknown indicates an invalid logging provider selection.
var ErrLoggingProviderUnknown = errors.New("shelf config: logging provider is invalid")

// ErrLoggingLevelInvalid indicates an invalid logging level.
var ErrLoggingLevelInvalid = errors.New("shelf config: logging level is invalid")

// ErrLoggingFormatInvalid indicates an invalid logging format.
var ErrLoggingFormatInvalid = errors.New("shelf config: logging format is invalid")

// ErrManuscriptsDirRequired indicates manuscripts were enabled without a content directory.
var ErrManuscriptsDirRequired = errors.New("shelf config: manuscripts content directory is required when manuscripts are enabled")

// ErrNavigationRoutesRequired indicates navigation was enabled without route configuration.
var ErrNavigationRoutesRequired = errors.New("shelf config: navigation requires a route configuration")

// Config aggregates locale settings, feature flags, and adapter bindings for
// the shelf module. Fields intentionally use simple types so host applications
// can extend them later.
type Config struct {
	DefaultLocale string
	Locales       []string
	Cache         CacheConfig
	Logging       LoggingConfig
	Navigation    NavigationConfig
	Manuscripts   ManuscriptConfig
	Features      Features
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig selects and tunes the logger provider.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// NavigationConfig captures routing configuration for reader URL resolution.
// LocaleGroups maps locale codes to dedicated route groups for hosts that
// serve localized path layouts.
type NavigationConfig struct {
	RouteConfig  *urlkit.Config
	DefaultGroup string
	LocaleGroups map[string]string
	WorkRoute    string
	ChapterRoute string
	LocaleParam  string
}

// ManuscriptConfig wires the markdown manuscript import pipeline.
type ManuscriptConfig struct {
	Enabled       bool
	ContentDir    string
	Pattern       string
	Recursive     bool
	DefaultLocale string
}

// Features toggles module functionality.
type Features struct {
	Cache       bool
	Navigation  bool
	Manuscripts bool
}

// DefaultConfig returns the canonical configuration: the locale set and
// default the platform ships with, caching and navigation off, no-op logging.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Locales:       []string{"en", "ko", "mn", "ja"},
		Cache: CacheConfig{
			DefaultTTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "noop",
			Level:    "info",
			Format:   "json",
		},
		Manuscripts: ManuscriptConfig{
			Pattern: "*.md",
		},
	}
}

// Validate checks cross-field invariants before the container boots.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.DefaultLocale, validation.Required.Error(ErrDefaultLocaleRequired.Error())),
		validation.Field(&c.Locales, validation.Required.Error(ErrLocalesRequired.Error())),
	); err != nil {
		return err
	}

	if !containsLocale(c.Locales, c.DefaultLocale) {
		return ErrDefaultLocaleUnsupported
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Provider)) {
	case "", "noop", "gologger", "console":
	default:
		return ErrLoggingProviderUnknown
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}

	if c.Features.Manuscripts && strings.TrimSpace(c.Manuscripts.ContentDir) == "" {
		return ErrManuscriptsDirRequired
	}

	if c.Features.Navigation && c.Navigation.RouteConfig == nil {
		return ErrNavigationRoutesRequired
	}

	return nil
}

// NormalizedLocales returns the supported set lowercased, trimmed, and
// de-duplicated while preserving the configured canonical order.
func (c Config) NormalizedLocales() []string {
	seen := make(map[string]struct{}, len(c.Locales))
	out := make([]string, 0, len(c.Locales))
	for _, code := range c.Locales {
		normalized := strings.ToLower(strings.TrimSpace(code))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func containsLocale(locales []string, code string) bool {
	target := strings.ToLower(strings.TrimSpace(code))
	for _, candidate := range locales {
		if strings.ToLower(strings.TrimSpace(candidate)) == target {
			return true
		}
	}
	return false
}
