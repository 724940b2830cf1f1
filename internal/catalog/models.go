package catalog

import shelfcatalog "github.com/goliatone/go-shelf/catalog"

type (
	Locale             = shelfcatalog.Locale
	Work               = shelfcatalog.Work
	WorkKind           = shelfcatalog.WorkKind
	Chapter            = shelfcatalog.Chapter
	WorkTranslation    = shelfcatalog.WorkTranslation
	ChapterTranslation = shelfcatalog.ChapterTranslation

	CreateWorkRequest  = shelfcatalog.CreateWorkRequest
	PublishWorkRequest = shelfcatalog.PublishWorkRequest
	AddChapterRequest  = shelfcatalog.AddChapterRequest
)

const (
	WorkKindSeries = shelfcatalog.WorkKindSeries
	WorkKindBook   = shelfcatalog.WorkKindBook
)

// Typed not-found errors share the public package's definitions so errors.As
// works across the module boundary.
type (
	WorkNotFoundError    = shelfcatalog.WorkNotFoundError
	ChapterNotFoundError = shelfcatalog.ChapterNotFoundError
	LocaleNotFoundError  = shelfcatalog.LocaleNotFoundError
)

var (
	ErrWorkKindInvalid      = shelfcatalog.ErrWorkKindInvalid
	ErrWorkIDRequired       = shelfcatalog.ErrWorkIDRequired
	ErrSlugRequired         = shelfcatalog.ErrSlugRequired
	ErrSlugInvalid          = shelfcatalog.ErrSlugInvalid
	ErrSlugExists           = shelfcatalog.ErrSlugExists
	ErrTitleRequired        = shelfcatalog.ErrTitleRequired
	ErrOrdinalInvalid       = shelfcatalog.ErrOrdinalInvalid
	ErrOrdinalExists        = shelfcatalog.ErrOrdinalExists
	ErrChapterIDRequired    = shelfcatalog.ErrChapterIDRequired
	ErrUnknownLocale        = shelfcatalog.ErrUnknownLocale
	ErrTranslationEmpty     = shelfcatalog.ErrTranslationEmpty
	ErrTranslationNotFound  = shelfcatalog.ErrTranslationNotFound
	ErrWorkNotFound         = shelfcatalog.ErrWorkNotFound
	ErrChapterNotFound      = shelfcatalog.ErrChapterNotFound
	ErrAlreadyPublished     = shelfcatalog.ErrAlreadyPublished
	ErrNotPublished         = shelfcatalog.ErrNotPublished
	ErrDefaultLocaleUnknown = shelfcatalog.ErrDefaultLocaleUnknown
)
