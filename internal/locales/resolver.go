package locales

import (
	"strings"

	"golang.org/x/text/language"
)

// Resolver computes the ordered locale fallback chain for a request. It is
// pure and carries no I/O: the supported set and process default are fixed at
// construction time, so two resolvers built from the same configuration
// produce identical chains.
type Resolver struct {
	defaultLocale string
	supported     []string
	supportedSet  map[string]struct{}
	matcher       language.Matcher
	matcherCodes  []string
}

// NewResolver builds a resolver from the process default locale and the
// supported set in canonical order. Invalid entries are dropped; the default
// locale is always treated as supported.
func NewResolver(defaultLocale string, supported []string) *Resolver {
	r := &Resolver{
		defaultLocale: normalizeCode(defaultLocale),
		supportedSet:  make(map[string]struct{}),
	}
	if r.defaultLocale == "" {
		r.defaultLocale = "en"
	}

	for _, code := range supported {
		normalized := normalizeCode(code)
		if normalized == "" {
			continue
		}
		if _, ok := r.supportedSet[normalized]; ok {
			continue
		}
		r.supportedSet[normalized] = struct{}{}
		r.supported = append(r.supported, normalized)
	}

	if _, ok := r.supportedSet[r.defaultLocale]; !ok {
		r.supportedSet[r.defaultLocale] = struct{}{}
		r.supported = append(r.supported, r.defaultLocale)
	}

	tags := make([]language.Tag, 0, len(r.supported))
	codes := make([]string, 0, len(r.supported))
	for _, code := range r.supported {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	if len(tags) > 0 {
		r.matcher = language.NewMatcher(tags)
		r.matcherCodes = codes
	}

	return r
}

// Default returns the process-wide default locale.
func (r *Resolver) Default() string {
	return r.defaultLocale
}

// Supported returns the supported locale codes in canonical order.
func (r *Resolver) Supported() []string {
	out := make([]string, len(r.supported))
	copy(out, r.supported)
	return out
}

// IsSupported reports whether the code normalizes to a supported locale.
func (r *Resolver) IsSupported(code string) bool {
	return r.Normalize(code) != ""
}

// Normalize maps a raw locale code onto the supported set. Exact matches win;
// region and script variants collapse to their supported base tag ("ko-KR"
// becomes "ko"). Unknown or unsupported codes normalize to the empty string.
// Invalid input never errors.
func (r *Resolver) Normalize(raw string) string {
	code := normalizeCode(raw)
	if code == "" {
		return ""
	}
	if _, ok := r.supportedSet[code]; ok {
		return code
	}
	if r.matcher == nil {
		return ""
	}

	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	_, index, confidence := r.matcher.Match(tag)
	if confidence < language.High {
		return ""
	}
	if index < 0 || index >= len(r.matcherCodes) {
		return ""
	}
	return r.matcherCodes[index]
}

// Chain returns the ordered, de-duplicated fallback chain for a request:
// the requested locale when supported, the work's own default when supported,
// the process default, then every remaining supported locale in canonical
// order. The chain is never empty and its tail is deterministic, so a full
// fallback always ends the same way.
func (r *Resolver) Chain(requested string, workDefault string) []string {
	chain := make([]string, 0, len(r.supported))
	seen := make(map[string]struct{}, len(r.supported))

	appendLocale := func(code string) {
		if code == "" {
			return
		}
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		chain = append(chain, code)
	}

	appendLocale(r.Normalize(requested))
	appendLocale(r.Normalize(workDefault))
	appendLocale(r.defaultLocale)
	for _, code := range r.supported {
		appendLocale(code)
	}

	return chain
}

func normalizeCode(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
