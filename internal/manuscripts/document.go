package manuscripts

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// DocumentType discriminates the two manuscript shapes.
type DocumentType string

const (
	// DocumentTypeWork is a work manifest: one file describing a series or book.
	DocumentTypeWork DocumentType = "work"
	// DocumentTypeChapter is a chapter file: ordinal metadata plus a Markdown body.
	DocumentTypeChapter DocumentType = "chapter"
)

var (
	ErrDocumentTypeUnknown = errors.New("manuscripts: document type must be work or chapter")
	ErrFrontMatterInvalid  = errors.New("manuscripts: frontmatter is invalid")
)

// Document is one parsed manuscript file. Work manifests describe the base
// record; chapter files carry the reading body. A non-empty Locale on a
// chapter marks the file as a translation overlay rather than base content.
type Document struct {
	Path         string
	Type         DocumentType
	Kind         string
	Slug         string
	Work         string
	Ordinal      int
	Locale       string
	Title        string
	Description  string
	Status       string
	Published    *time.Time
	Cover        string
	Translations map[string]Overlay
	Body         []byte
	Raw          map[string]any
	LastModified time.Time
}

// Overlay is a localized title/description pair declared inline on a work
// manifest.
type Overlay struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type documentEnvelope struct {
	Type         string             `yaml:"type"`
	Kind         string             `yaml:"kind"`
	Slug         string             `yaml:"slug"`
	Work         string             `yaml:"work"`
	Ordinal      int                `yaml:"ordinal"`
	Locale       string             `yaml:"locale"`
	Title        string             `yaml:"title"`
	Description  string             `yaml:"description"`
	Status       string             `yaml:"status"`
	Published    *time.Time         `yaml:"published"`
	Cover        string             `yaml:"cover"`
	Translations map[string]Overlay `yaml:"translations"`
}

// ParseDocument extracts frontmatter and body from a manuscript source. The
// raw frontmatter is kept alongside the typed fields so callers can run schema
// validation against exactly what the author wrote.
func ParseDocument(path string, source []byte, modified time.Time) (*Document, error) {
	var envelope documentEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFrontMatterInvalid, path, err)
	}

	raw := map[string]any{}
	if _, err := frontmatter.Parse(bytes.NewReader(source), &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFrontMatterInvalid, path, err)
	}

	docType := DocumentType(strings.ToLower(strings.TrimSpace(envelope.Type)))
	switch docType {
	case DocumentTypeWork, DocumentTypeChapter:
	default:
		return nil, fmt.Errorf("%w: %s", ErrDocumentTypeUnknown, path)
	}

	if err := ValidateFrontMatter(docType, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Document{
		Path:         path,
		Type:         docType,
		Kind:         strings.ToLower(strings.TrimSpace(envelope.Kind)),
		Slug:         strings.TrimSpace(envelope.Slug),
		Work:         strings.TrimSpace(envelope.Work),
		Ordinal:      envelope.Ordinal,
		Locale:       strings.ToLower(strings.TrimSpace(envelope.Locale)),
		Title:        strings.TrimSpace(envelope.Title),
		Description:  strings.TrimSpace(envelope.Description),
		Status:       strings.ToLower(strings.TrimSpace(envelope.Status)),
		Published:    envelope.Published,
		Cover:        strings.TrimSpace(envelope.Cover),
		Translations: envelope.Translations,
		Body:         body,
		Raw:          raw,
		LastModified: modified,
	}, nil
}
