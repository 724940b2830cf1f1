package links

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-shelf/internal/catalog"
	urlkit "github.com/goliatone/go-urlkit"
)

// ResolverOptions configures the go-urlkit backed link builder.
type ResolverOptions struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	LocaleGroups map[string]string
	WorkRoute    string
	ChapterRoute string
	KindParam    string
	SlugParam    string
	OrdinalParam string
	LocaleParam  string
}

// Resolver builds reader-facing URLs using a go-urlkit RouteManager. Locales
// can map to dedicated route groups so hosts can serve localized path layouts
// ("/ko/series/..." vs "/series/..."); locales without a group fall back to
// the default group with the locale passed as a route param.
type Resolver struct {
	manager *urlkit.RouteManager

	defaultGroup string
	localeGroups map[string]string

	workRoute    string
	chapterRoute string
	kindParam    string
	slugParam    string
	ordinalParam string
	localeParam  string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewResolver constructs a link builder backed by go-urlkit.
func NewResolver(opts ResolverOptions) *Resolver {
	if opts.WorkRoute == "" {
		opts.WorkRoute = "work"
	}
	if opts.ChapterRoute == "" {
		opts.ChapterRoute = "chapter"
	}
	if opts.KindParam == "" {
		opts.KindParam = "kind"
	}
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	if opts.OrdinalParam == "" {
		opts.OrdinalParam = "ordinal"
	}
	if opts.LocaleParam == "" {
		opts.LocaleParam = "locale"
	}

	return &Resolver{
		manager:      opts.Manager,
		defaultGroup: strings.TrimSpace(opts.DefaultGroup),
		localeGroups: opts.LocaleGroups,
		workRoute:    opts.WorkRoute,
		chapterRoute: opts.ChapterRoute,
		kindParam:    opts.KindParam,
		slugParam:    opts.SlugParam,
		ordinalParam: opts.OrdinalParam,
		localeParam:  opts.LocaleParam,
		groupCache:   make(map[string]*urlkit.Group),
	}
}

// WorkURL builds the canonical reader URL for a work.
func (r *Resolver) WorkURL(kind catalog.WorkKind, slug string, locale string) (string, error) {
	return r.build(r.workRoute, kind, slug, 0, locale)
}

// ChapterURL builds the canonical reader URL for a chapter.
func (r *Resolver) ChapterURL(kind catalog.WorkKind, slug string, ordinal int, locale string) (string, error) {
	return r.build(r.chapterRoute, kind, slug, ordinal, locale)
}

func (r *Resolver) build(route string, kind catalog.WorkKind, slug string, ordinal int, locale string) (string, error) {
	if r == nil || r.manager == nil {
		return "", nil
	}

	groupPath := r.defaultGroup
	localeKey := strings.ToLower(strings.TrimSpace(locale))
	if r.localeGroups != nil {
		if path, ok := r.localeGroups[localeKey]; ok && strings.TrimSpace(path) != "" {
			groupPath = strings.TrimSpace(path)
		}
	}
	if groupPath == "" {
		return "", nil
	}

	group, err := r.groupForPath(groupPath)
	if err != nil || group == nil {
		return "", err
	}

	builder, err := r.safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	if builder == nil {
		return "", fmt.Errorf("links: route %q has no builder", route)
	}

	builder.WithParam(r.kindParam, string(kind))
	builder.WithParam(r.slugParam, slug)
	if ordinal > 0 {
		builder.WithParam(r.ordinalParam, strconv.Itoa(ordinal))
	}
	if localeKey != "" {
		builder.WithParam(r.localeParam, localeKey)
	}

	url, err := builder.Build()
	if err != nil {
		return "", err
	}
	return url, nil
}

func (r *Resolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	if len(parts) == 0 {
		return nil, fmt.Errorf("links: invalid route group path %q", path)
	}

	root, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	current := root
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

// safeBuilder wraps the urlkit route lookup, which panics on unknown route
// names. Results are named so the deferred recover can rewrite them.
func (r *Resolver) safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("links: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("links: route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("links: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("links: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("links: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("links: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, nil
}
