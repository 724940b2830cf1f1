package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrWorkKindInvalid      = errors.New("catalog: work kind is invalid")
	ErrWorkIDRequired       = errors.New("catalog: work id required")
	ErrSlugRequired         = errors.New("catalog: slug is required")
	ErrSlugInvalid          = errors.New("catalog: slug contains invalid characters")
	ErrSlugExists           = errors.New("catalog: slug already exists")
	ErrTitleRequired        = errors.New("catalog: base title is required")
	ErrOrdinalInvalid       = errors.New("catalog: ordinal must be greater than zero")
	ErrOrdinalExists        = errors.New("catalog: ordinal already used within work")
	ErrChapterIDRequired    = errors.New("catalog: chapter id required")
	ErrUnknownLocale        = errors.New("catalog: unknown locale")
	ErrTranslationEmpty     = errors.New("catalog: translation has no fields set")
	ErrTranslationNotFound  = errors.New("catalog: translation not found")
	ErrWorkNotFound         = errors.New("catalog: work not found")
	ErrChapterNotFound      = errors.New("catalog: chapter not found")
	ErrAlreadyPublished     = errors.New("catalog: work already published")
	ErrNotPublished         = errors.New("catalog: work is not published")
	ErrDefaultLocaleUnknown = errors.New("catalog: default locale is not a supported locale")
)

// WorkNotFoundError reports a missing work and unwraps to ErrWorkNotFound.
type WorkNotFoundError struct {
	Kind WorkKind
	Key  string
}

func (e *WorkNotFoundError) Error() string {
	if e == nil {
		return ErrWorkNotFound.Error()
	}
	key := strings.TrimSpace(e.Key)
	if key == "" {
		return ErrWorkNotFound.Error()
	}
	if e.Kind != "" {
		return fmt.Sprintf("catalog: %s %q not found", e.Kind, key)
	}
	return fmt.Sprintf("catalog: work %q not found", key)
}

func (e *WorkNotFoundError) Unwrap() error {
	return ErrWorkNotFound
}

// ChapterNotFoundError reports a missing chapter and unwraps to ErrChapterNotFound.
type ChapterNotFoundError struct {
	WorkID  uuid.UUID
	Key     string
	Ordinal int
}

func (e *ChapterNotFoundError) Error() string {
	if e == nil {
		return ErrChapterNotFound.Error()
	}
	if e.Ordinal > 0 && e.WorkID != uuid.Nil {
		return fmt.Sprintf("catalog: chapter %d of work %s not found", e.Ordinal, e.WorkID)
	}
	if key := strings.TrimSpace(e.Key); key != "" {
		return fmt.Sprintf("catalog: chapter %q not found", key)
	}
	return ErrChapterNotFound.Error()
}

func (e *ChapterNotFoundError) Unwrap() error {
	return ErrChapterNotFound
}

// LocaleNotFoundError reports an unknown locale code and unwraps to ErrUnknownLocale.
type LocaleNotFoundError struct {
	Code string
}

func (e *LocaleNotFoundError) Error() string {
	if e == nil || strings.TrimSpace(e.Code) == "" {
		return ErrUnknownLocale.Error()
	}
	return fmt.Sprintf("catalog: locale %q not found", strings.TrimSpace(e.Code))
}

func (e *LocaleNotFoundError) Unwrap() error {
	return ErrUnknownLocale
}
