package shelf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	publiccatalog "github.com/goliatone/go-shelf/catalog"
	internalcatalog "github.com/goliatone/go-shelf/internal/catalog"
	"github.com/google/uuid"
)

var (
	// ErrLocaleCodeRequired indicates locale lookups require a non-empty locale code.
	ErrLocaleCodeRequired = errors.New("shelf: locale code is required")
	// ErrUnknownLocale indicates locale lookup failed because the locale code is unknown.
	ErrUnknownLocale = publiccatalog.ErrUnknownLocale
)

// LocaleNotFoundError describes unknown locale-code lookups and unwraps to ErrUnknownLocale.
type LocaleNotFoundError struct {
	Code string
}

func (e *LocaleNotFoundError) Error() string {
	code := strings.TrimSpace(e.Code)
	if code == "" {
		return "shelf: locale not found"
	}
	return fmt.Sprintf("shelf: locale %q not found", code)
}

func (e *LocaleNotFoundError) Unwrap() error {
	return ErrUnknownLocale
}

// LocaleInfo is the stable public locale view exposed by shelf.
type LocaleInfo struct {
	ID         uuid.UUID
	Code       string
	Display    string
	NativeName *string
	IsActive   bool
	IsDefault  bool
}

// LocaleService resolves locale records through the public shelf contract.
type LocaleService interface {
	ResolveByCode(ctx context.Context, code string) (LocaleInfo, error)
}

type localeService struct {
	module *Module
}

func newLocaleService(m *Module) LocaleService {
	return &localeService{module: m}
}

func (s *localeService) ResolveByCode(ctx context.Context, code string) (LocaleInfo, error) {
	if s == nil || s.module == nil || s.module.container == nil {
		return LocaleInfo{}, errNilModule
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return LocaleInfo{}, ErrLocaleCodeRequired
	}

	repo := s.module.container.LocaleRepository()
	if repo == nil {
		return LocaleInfo{}, errNilModule
	}

	locale, err := repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, internalcatalog.ErrUnknownLocale) {
			return LocaleInfo{}, &LocaleNotFoundError{Code: code}
		}
		return LocaleInfo{}, err
	}
	if locale == nil {
		return LocaleInfo{}, &LocaleNotFoundError{Code: code}
	}

	return LocaleInfo{
		ID:         locale.ID,
		Code:       locale.Code,
		Display:    locale.Display,
		NativeName: cloneStringPtr(locale.NativeName),
		IsActive:   locale.IsActive,
		IsDefault:  locale.IsDefault,
	}, nil
}

func cloneStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
