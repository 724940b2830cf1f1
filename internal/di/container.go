package di

import (
	"context"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/identity"
	"github.com/goliatone/go-shelf/internal/links"
	"github.com/goliatone/go-shelf/internal/locales"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/internal/logging/console"
	"github.com/goliatone/go-shelf/internal/logging/gologger"
	"github.com/goliatone/go-shelf/internal/manuscripts"
	readersvc "github.com/goliatone/go-shelf/internal/reader"
	"github.com/goliatone/go-shelf/internal/runtimeconfig"
	"github.com/goliatone/go-shelf/pkg/interfaces"
	"github.com/goliatone/go-shelf/reader"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Without a bun.DB it runs entirely on
// in-memory repositories, which is the configuration the test suites use.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	clock          func() time.Time
	idGenerator    func() uuid.UUID

	resolver     *locales.Resolver
	routeManager *urlkit.RouteManager
	linkBuilder  readersvc.LinkBuilder

	workRepo        catalog.WorkRepository
	chapterRepo     catalog.ChapterRepository
	translationRepo catalog.TranslationRepository
	localeRepo      catalog.LocaleRepository

	memoryLocaleRepo *catalog.MemoryLocaleRepository

	catalogSvc catalog.Service
	readerSvc  reader.Service
	importer   *manuscripts.Importer
}

// Option mutates the container during construction.
type Option func(*Container)

// WithBunDB switches repositories to SQL-backed implementations.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logger provider binding.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithClock overrides the time source used by the catalog service.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator used by the catalog service.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(c *Container) {
		if generator != nil {
			c.idGenerator = generator
		}
	}
}

// WithLinkBuilder overrides the reader link builder binding.
func WithLinkBuilder(builder readersvc.LinkBuilder) Option {
	return func(c *Container) {
		c.linkBuilder = builder
	}
}

// WithCatalogService overrides the default catalog service binding.
func WithCatalogService(svc catalog.Service) Option {
	return func(c *Container) {
		c.catalogSvc = svc
	}
}

// WithReaderService overrides the default reader service binding.
func WithReaderService(svc reader.Service) Option {
	return func(c *Container) {
		c.readerSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) *Container {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	memoryLocaleRepo := catalog.NewMemoryLocaleRepository()

	c := &Container{
		Config:           cfg,
		cacheTTL:         cacheTTL,
		resolver:         locales.NewResolver(cfg.DefaultLocale, cfg.NormalizedLocales()),
		workRepo:         catalog.NewMemoryWorkRepository(),
		chapterRepo:      catalog.NewMemoryChapterRepository(),
		translationRepo:  catalog.NewMemoryTranslationRepository(),
		localeRepo:       memoryLocaleRepo,
		memoryLocaleRepo: memoryLocaleRepo,
		clock:            func() time.Time { return time.Now().UTC() },
		idGenerator:      uuid.New,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureCacheDefaults()
	c.configureRepositories()
	c.seedLocales()
	c.configureNavigation()

	if c.catalogSvc == nil {
		c.catalogSvc = catalog.New(
			c.workRepo,
			c.chapterRepo,
			c.translationRepo,
			c.localeRepo,
			c.resolver,
			catalog.WithClock(c.clock),
			catalog.WithIDGenerator(c.idGenerator),
			catalog.WithLogger(logging.CatalogLogger(c.loggerProvider)),
		)
	}

	if c.readerSvc == nil {
		readerOpts := []readersvc.Option{
			readersvc.WithLogger(logging.ReaderLogger(c.loggerProvider)),
		}
		if c.linkBuilder != nil {
			readerOpts = append(readerOpts, readersvc.WithLinkBuilder(c.linkBuilder))
		}
		c.readerSvc = readersvc.New(
			c.workRepo,
			c.chapterRepo,
			c.translationRepo,
			c.resolver,
			readerOpts...,
		)
	}

	if c.Config.Features.Manuscripts {
		c.importer = manuscripts.NewImporter(
			c.catalogSvc,
			c.resolver,
			manuscripts.WithLogger(logging.ManuscriptsLogger(c.loggerProvider)),
		)
	}

	return c
}

func (c *Container) configureLogging() {
	if c.loggerProvider != nil {
		return
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err == nil {
			c.loggerProvider = provider
		}
	case "console":
		level, _ := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled && !c.Config.Features.Cache {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	c.workRepo = catalog.NewBunWorkRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.chapterRepo = catalog.NewBunChapterRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.translationRepo = catalog.NewBunTranslationRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.localeRepo = catalog.NewBunLocaleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)

	c.memoryLocaleRepo = nil
}

// seedLocales registers the configured locale set. Identifiers are derived
// from the locale code so repeated boots converge on the same rows. Only the
// in-memory repository is seeded; SQL deployments own their locale rows via
// migrations.
func (c *Container) seedLocales() {
	if c.memoryLocaleRepo == nil {
		return
	}

	codes := c.Config.NormalizedLocales()
	if len(codes) == 0 {
		codes = []string{strings.ToLower(strings.TrimSpace(c.Config.DefaultLocale))}
	}

	ctx := context.Background()
	defaultLocale := strings.ToLower(strings.TrimSpace(c.Config.DefaultLocale))
	for _, code := range codes {
		if code == "" {
			continue
		}
		c.memoryLocaleRepo.Upsert(ctx, &catalog.Locale{
			ID:        identity.LocaleUUID(code),
			Code:      code,
			Display:   code,
			IsActive:  true,
			IsDefault: code == defaultLocale,
		})
	}
}

func (c *Container) configureNavigation() {
	if c.linkBuilder != nil {
		return
	}

	navCfg := c.Config.Navigation
	if !c.Config.Features.Navigation || navCfg.RouteConfig == nil {
		return
	}

	manager := urlkit.NewRouteManager(navCfg.RouteConfig)
	c.routeManager = manager

	c.linkBuilder = links.NewResolver(links.ResolverOptions{
		Manager:      manager,
		DefaultGroup: strings.TrimSpace(navCfg.DefaultGroup),
		LocaleGroups: navCfg.LocaleGroups,
		WorkRoute:    strings.TrimSpace(navCfg.WorkRoute),
		ChapterRoute: strings.TrimSpace(navCfg.ChapterRoute),
		LocaleParam:  strings.TrimSpace(navCfg.LocaleParam),
	})
}

// CatalogService exposes the configured catalog service.
func (c *Container) CatalogService() catalog.Service {
	return c.catalogSvc
}

// ReaderService exposes the configured reader service.
func (c *Container) ReaderService() reader.Service {
	return c.readerSvc
}

// LocaleResolver exposes the locale resolution component.
func (c *Container) LocaleResolver() *locales.Resolver {
	return c.resolver
}

// LoggerProvider exposes the configured logger provider, which is nil when
// logging runs in no-op mode.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// RouteManager exposes the navigation route manager when navigation is enabled.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// LinkBuilder exposes the reader link builder when navigation is enabled.
func (c *Container) LinkBuilder() readersvc.LinkBuilder {
	return c.linkBuilder
}

// Importer exposes the manuscript importer when manuscripts are enabled.
func (c *Container) Importer() *manuscripts.Importer {
	return c.importer
}

// WorkRepository exposes the configured work repository.
func (c *Container) WorkRepository() catalog.WorkRepository {
	return c.workRepo
}

// ChapterRepository exposes the configured chapter repository.
func (c *Container) ChapterRepository() catalog.ChapterRepository {
	return c.chapterRepo
}

// TranslationRepository exposes the configured translation repository.
func (c *Container) TranslationRepository() catalog.TranslationRepository {
	return c.translationRepo
}

// LocaleRepository exposes the configured locale repository.
func (c *Container) LocaleRepository() catalog.LocaleRepository {
	return c.localeRepo
}
