package domain

// Status represents lifecycle states for catalog entities
type Status string

const (
	// StatusDraft indicates a work still under preparation
	StatusDraft Status = "draft"
	// StatusPublished identifies a work available to readers
	StatusPublished Status = "published"
	// StatusArchived marks a work retained for history but no longer visible
	StatusArchived Status = "archived"
)
