package catalog

import "github.com/goliatone/go-slug"

// SlugNormalizer exposes the slug normalizer interface.
type SlugNormalizer = slug.Normalizer

// DefaultSlugNormalizer returns the default slug normalizer.
func DefaultSlugNormalizer() SlugNormalizer {
	return slug.Default()
}

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// SlugFromTitle derives the URL slug for a work whose request omitted one.
// Titles that normalize to nothing (punctuation-only, whitespace) yield
// ErrSlugInvalid so the caller can demand an explicit slug instead.
func SlugFromTitle(title string) (string, error) {
	normalized, err := NormalizeSlug(title)
	if err != nil {
		return "", ErrSlugInvalid
	}
	if normalized == "" || !slug.IsValid(normalized) {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}
