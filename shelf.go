package shelf

import (
	"errors"

	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/di"
	"github.com/goliatone/go-shelf/internal/locales"
	"github.com/goliatone/go-shelf/internal/manuscripts"
	"github.com/goliatone/go-shelf/reader"
)

var errNilModule = errors.New("shelf: module is not initialized")

// CatalogService exports the catalog service contract for consumers of the shelf package.
type CatalogService = catalog.Service

// ReaderService exports the locale-aware read side contract.
type ReaderService = reader.Service

// ManuscriptImporter exports the markdown import pipeline.
type ManuscriptImporter = manuscripts.Importer

// Module is the top level shelf runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a shelf module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Module{container: di.NewContainer(cfg, opts...)}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Catalog returns the configured catalog service.
func (m *Module) Catalog() CatalogService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.CatalogService()
}

// Reader returns the configured reader service.
func (m *Module) Reader() ReaderService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ReaderService()
}

// Locales returns the public locale lookup service.
func (m *Module) Locales() LocaleService {
	return newLocaleService(m)
}

// LocaleResolver exposes locale normalization and fallback-chain computation.
func (m *Module) LocaleResolver() *locales.Resolver {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LocaleResolver()
}

// Importer returns the manuscript importer, nil unless the manuscripts
// feature is enabled.
func (m *Module) Importer() *ManuscriptImporter {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Importer()
}
