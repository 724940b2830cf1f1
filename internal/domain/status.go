package domain

import (
	"strings"
	"time"
)

// NormalizeStatus coerces arbitrary status strings into a known representation.
// Empty input maps to draft.
func NormalizeStatus(input string) Status {
	if strings.TrimSpace(input) == "" {
		return StatusDraft
	}
	return Status(strings.ToLower(strings.TrimSpace(input)))
}

// Visible reports whether a work may be served to an unauthenticated reader.
//
// Either signal is accepted as the source of truth: a published status or a
// non-nil published_at timestamp. Rows written by older editor flows carry one
// but not the other, so the check tolerates both. No locale or translation
// data is consulted here; callers must evaluate visibility before issuing any
// translation lookup.
func Visible(status Status, publishedAt *time.Time) bool {
	if status == StatusPublished {
		return true
	}
	return publishedAt != nil
}
