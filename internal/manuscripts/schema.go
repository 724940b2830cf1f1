package manuscripts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaValidation wraps frontmatter schema violations so callers can treat
// every malformed manuscript uniformly.
var ErrSchemaValidation = errors.New("manuscripts: frontmatter schema validation failed")

var workSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type":        map[string]any{"const": "work"},
		"kind":        map[string]any{"enum": []any{"series", "book"}},
		"slug":        map[string]any{"type": "string", "minLength": 1},
		"title":       map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"locale":      map[string]any{"type": "string"},
		"status":      map[string]any{"enum": []any{"draft", "published"}},
		"published":   map[string]any{},
		"cover":       map[string]any{"type": "string"},
		"translations": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"type", "kind", "slug", "title"},
	"additionalProperties": false,
}

var chapterSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type":    map[string]any{"const": "chapter"},
		"kind":    map[string]any{"enum": []any{"series", "book"}},
		"work":    map[string]any{"type": "string", "minLength": 1},
		"ordinal": map[string]any{"type": "integer", "minimum": 1},
		"locale":  map[string]any{"type": "string"},
		"title":   map[string]any{"type": "string"},
	},
	"required":             []any{"type", "kind", "work", "ordinal"},
	"additionalProperties": false,
}

var (
	compileOnce     sync.Once
	compiledWork    *jsonschema.Schema
	compiledChapter *jsonschema.Schema
	compileErr      error
)

func compiledSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledWork, compileErr = compileSchema("work.json", workSchema)
		if compileErr != nil {
			return
		}
		compiledChapter, compileErr = compileSchema("chapter.json", chapterSchema)
	})
	return compiledWork, compiledChapter, compileErr
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

// ValidateFrontMatter checks a document's raw frontmatter against the schema
// for its declared type.
func ValidateFrontMatter(docType DocumentType, raw map[string]any) error {
	work, chapter, err := compiledSchemas()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	schema := work
	if docType == DocumentTypeChapter {
		schema = chapter
	}

	payload := normalizePayload(raw)
	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %s", ErrSchemaValidation, flattenIssues(validationErr))
		}
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

// normalizePayload converts YAML-decoded values into the shapes the JSON
// schema validator expects (string keys, json-compatible scalars).
func normalizePayload(raw map[string]any) map[string]any {
	encoded, err := json.Marshal(stringifyKeys(raw))
	if err != nil {
		return raw
	}
	out := map[string]any{}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return raw
	}
	return out
}

func stringifyKeys(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = stringifyKeys(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprint(k)] = stringifyKeys(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = stringifyKeys(v)
		}
		return out
	default:
		return value
	}
}

func flattenIssues(err *jsonschema.ValidationError) string {
	issues := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			}
			issues = append(issues, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return strings.Join(issues, "; ")
}
