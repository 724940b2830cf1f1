package identity

import (
	"fmt"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// LocaleUUID derives the deterministic identifier used when seeding locales.
func LocaleUUID(localeCode string) uuid.UUID {
	return UUID("go-shelf:locale:" + strings.ToLower(strings.TrimSpace(localeCode)))
}

// WorkUUID derives a deterministic identifier for imported works keyed by kind and slug.
func WorkUUID(kind, slug string) uuid.UUID {
	return UUID("go-shelf:work:" + strings.ToLower(strings.TrimSpace(kind)) + ":" + strings.ToLower(strings.TrimSpace(slug)))
}

// ChapterUUID derives a deterministic identifier for imported chapters keyed by parent and ordinal.
func ChapterUUID(workID uuid.UUID, ordinal int) uuid.UUID {
	return UUID(fmt.Sprintf("go-shelf:chapter:%s:%d", workID, ordinal))
}

// TranslationUUID derives a deterministic identifier for imported translation overlays.
func TranslationUUID(entity string, ownerID uuid.UUID, locale string) uuid.UUID {
	return UUID("go-shelf:" + strings.TrimSpace(entity) + "_translation:" + ownerID.String() + ":" + strings.ToLower(strings.TrimSpace(locale)))
}
