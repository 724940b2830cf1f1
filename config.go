package shelf

import "github.com/goliatone/go-shelf/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired    = runtimeconfig.ErrDefaultLocaleRequired
	ErrDefaultLocaleUnsupported = runtimeconfig.ErrDefaultLocaleUnsupported
	ErrLocalesRequired          = runtimeconfig.ErrLocalesRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrManuscriptsDirRequired   = runtimeconfig.ErrManuscriptsDirRequired
	ErrNavigationRoutesRequired = runtimeconfig.ErrNavigationRoutesRequired
)

type (
	Config           = runtimeconfig.Config
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	ManuscriptConfig = runtimeconfig.ManuscriptConfig
	Features         = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
