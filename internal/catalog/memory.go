package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-shelf/internal/domain"
	"github.com/google/uuid"
)

// MemoryWorkRepository is an in-memory work store for scaffolding/tests.
type MemoryWorkRepository struct {
	mu        sync.RWMutex
	works     map[uuid.UUID]*Work
	slugIndex map[string]uuid.UUID
}

// NewMemoryWorkRepository constructs the repository.
func NewMemoryWorkRepository() *MemoryWorkRepository {
	return &MemoryWorkRepository{
		works:     make(map[uuid.UUID]*Work),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied work.
func (m *MemoryWorkRepository) Create(_ context.Context, record *Work) (*Work, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneWork(record)
	if _, exists := m.slugIndex[workSlugKey(copied.Kind, copied.Slug)]; exists {
		return nil, ErrSlugExists
	}
	m.works[copied.ID] = copied
	m.slugIndex[workSlugKey(copied.Kind, copied.Slug)] = copied.ID
	return cloneWork(copied), nil
}

// GetByID retrieves a work by identifier. A kind mismatch reads as missing so
// /series/:id never leaks a book record.
func (m *MemoryWorkRepository) GetByID(_ context.Context, kind WorkKind, id uuid.UUID) (*Work, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.works[id]
	if !ok || record.Kind != kind {
		return nil, &WorkNotFoundError{Kind: kind, Key: id.String()}
	}
	return cloneWork(record), nil
}

// GetBySlug retrieves a work by its kind-scoped slug.
func (m *MemoryWorkRepository) GetBySlug(_ context.Context, kind WorkKind, slug string) (*Work, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[workSlugKey(kind, slug)]
	if !ok {
		return nil, &WorkNotFoundError{Kind: kind, Key: slug}
	}
	return cloneWork(m.works[id]), nil
}

// List returns every work of the given kind regardless of status.
func (m *MemoryWorkRepository) List(_ context.Context, kind WorkKind) ([]*Work, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Work, 0, len(m.works))
	for _, record := range m.works {
		if record == nil || record.Kind != kind {
			continue
		}
		out = append(out, cloneWork(record))
	}
	sortWorksNewestFirst(out)
	return out, nil
}

// ListPublished returns works of the given kind that pass the publication gate.
func (m *MemoryWorkRepository) ListPublished(_ context.Context, kind WorkKind) ([]*Work, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Work, 0, len(m.works))
	for _, record := range m.works {
		if record == nil || record.Kind != kind {
			continue
		}
		if !domain.Visible(domain.Status(record.Status), record.PublishedAt) {
			continue
		}
		out = append(out, cloneWork(record))
	}
	sortWorksNewestFirst(out)
	return out, nil
}

// Update persists metadata changes for a work.
func (m *MemoryWorkRepository) Update(_ context.Context, record *Work) (*Work, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.works[record.ID]
	if !ok {
		return nil, &WorkNotFoundError{Kind: record.Kind, Key: record.ID.String()}
	}

	if record.Slug != current.Slug {
		if _, exists := m.slugIndex[workSlugKey(record.Kind, record.Slug)]; exists {
			return nil, ErrSlugExists
		}
		delete(m.slugIndex, workSlugKey(current.Kind, current.Slug))
		m.slugIndex[workSlugKey(record.Kind, record.Slug)] = record.ID
	}

	updated := cloneWork(record)
	m.works[record.ID] = updated
	return cloneWork(updated), nil
}

// Delete removes the work.
func (m *MemoryWorkRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.works[id]
	if !ok {
		return &WorkNotFoundError{Key: id.String()}
	}
	delete(m.slugIndex, workSlugKey(record.Kind, record.Slug))
	delete(m.works, id)
	return nil
}

// MemoryChapterRepository is an in-memory chapter store for scaffolding/tests.
type MemoryChapterRepository struct {
	mu           sync.RWMutex
	chapters     map[uuid.UUID]*Chapter
	ordinalIndex map[string]uuid.UUID
}

// NewMemoryChapterRepository constructs the repository.
func NewMemoryChapterRepository() *MemoryChapterRepository {
	return &MemoryChapterRepository{
		chapters:     make(map[uuid.UUID]*Chapter),
		ordinalIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied chapter.
func (m *MemoryChapterRepository) Create(_ context.Context, record *Chapter) (*Chapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneChapter(record)
	key := chapterOrdinalKey(copied.WorkID, copied.Ordinal)
	if _, exists := m.ordinalIndex[key]; exists {
		return nil, ErrOrdinalExists
	}
	m.chapters[copied.ID] = copied
	m.ordinalIndex[key] = copied.ID
	return cloneChapter(copied), nil
}

// GetByID retrieves a chapter by identifier.
func (m *MemoryChapterRepository) GetByID(_ context.Context, id uuid.UUID) (*Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.chapters[id]
	if !ok {
		return nil, &ChapterNotFoundError{Key: id.String()}
	}
	return cloneChapter(record), nil
}

// GetByOrdinal retrieves a chapter by its reading-order position.
func (m *MemoryChapterRepository) GetByOrdinal(_ context.Context, workID uuid.UUID, ordinal int) (*Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.ordinalIndex[chapterOrdinalKey(workID, ordinal)]
	if !ok {
		return nil, &ChapterNotFoundError{WorkID: workID, Ordinal: ordinal}
	}
	return cloneChapter(m.chapters[id]), nil
}

// ListByWork returns the work's chapters in ordinal order.
func (m *MemoryChapterRepository) ListByWork(_ context.Context, workID uuid.UUID) ([]*Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Chapter, 0)
	for _, record := range m.chapters {
		if record == nil || record.WorkID != workID {
			continue
		}
		out = append(out, cloneChapter(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

// Update persists changes for a chapter.
func (m *MemoryChapterRepository) Update(_ context.Context, record *Chapter) (*Chapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.chapters[record.ID]
	if !ok {
		return nil, &ChapterNotFoundError{Key: record.ID.String()}
	}

	if record.Ordinal != current.Ordinal {
		key := chapterOrdinalKey(record.WorkID, record.Ordinal)
		if _, exists := m.ordinalIndex[key]; exists {
			return nil, ErrOrdinalExists
		}
		delete(m.ordinalIndex, chapterOrdinalKey(current.WorkID, current.Ordinal))
		m.ordinalIndex[key] = record.ID
	}

	updated := cloneChapter(record)
	m.chapters[record.ID] = updated
	return cloneChapter(updated), nil
}

// Delete removes the chapter.
func (m *MemoryChapterRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.chapters[id]
	if !ok {
		return &ChapterNotFoundError{Key: id.String()}
	}
	delete(m.ordinalIndex, chapterOrdinalKey(record.WorkID, record.Ordinal))
	delete(m.chapters, id)
	return nil
}

// MemoryTranslationRepository is an in-memory translation store for
// scaffolding/tests. Rows are keyed the same way the SQL schema keys them:
// (kind, work_id, locale) for works, (chapter_id, locale) for chapters.
type MemoryTranslationRepository struct {
	mu       sync.RWMutex
	works    map[string]*WorkTranslation
	chapters map[string]*ChapterTranslation
}

// NewMemoryTranslationRepository constructs the repository.
func NewMemoryTranslationRepository() *MemoryTranslationRepository {
	return &MemoryTranslationRepository{
		works:    make(map[string]*WorkTranslation),
		chapters: make(map[string]*ChapterTranslation),
	}
}

// UpsertWorkTranslation inserts or replaces a work overlay.
func (m *MemoryTranslationRepository) UpsertWorkTranslation(_ context.Context, record *WorkTranslation) (*WorkTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneWorkTranslation(record)
	key := workTranslationKey(copied.Kind, copied.WorkID, copied.Locale)
	if existing, ok := m.works[key]; ok {
		copied.ID = existing.ID
		copied.CreatedAt = existing.CreatedAt
	}
	m.works[key] = copied
	return cloneWorkTranslation(copied), nil
}

// UpsertChapterTranslation inserts or replaces a chapter overlay.
func (m *MemoryTranslationRepository) UpsertChapterTranslation(_ context.Context, record *ChapterTranslation) (*ChapterTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneChapterTranslation(record)
	key := chapterTranslationKey(copied.ChapterID, copied.Locale)
	if existing, ok := m.chapters[key]; ok {
		copied.ID = existing.ID
		copied.CreatedAt = existing.CreatedAt
	}
	m.chapters[key] = copied
	return cloneChapterTranslation(copied), nil
}

// DeleteWorkTranslation removes a work overlay.
func (m *MemoryTranslationRepository) DeleteWorkTranslation(_ context.Context, kind WorkKind, workID uuid.UUID, locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := workTranslationKey(kind, workID, locale)
	if _, ok := m.works[key]; !ok {
		return ErrTranslationNotFound
	}
	delete(m.works, key)
	return nil
}

// DeleteChapterTranslation removes a chapter overlay.
func (m *MemoryTranslationRepository) DeleteChapterTranslation(_ context.Context, chapterID uuid.UUID, locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := chapterTranslationKey(chapterID, locale)
	if _, ok := m.chapters[key]; !ok {
		return ErrTranslationNotFound
	}
	delete(m.chapters, key)
	return nil
}

// ListWorkTranslations returns one locale's overlays for a batch of works.
func (m *MemoryTranslationRepository) ListWorkTranslations(_ context.Context, kind WorkKind, workIDs []uuid.UUID, locale string) ([]*WorkTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*WorkTranslation, 0, len(workIDs))
	for _, id := range workIDs {
		if record, ok := m.works[workTranslationKey(kind, id, locale)]; ok {
			out = append(out, cloneWorkTranslation(record))
		}
	}
	return out, nil
}

// ListChapterTranslations returns one locale's overlays for a batch of chapters.
func (m *MemoryTranslationRepository) ListChapterTranslations(_ context.Context, chapterIDs []uuid.UUID, locale string) ([]*ChapterTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ChapterTranslation, 0, len(chapterIDs))
	for _, id := range chapterIDs {
		if record, ok := m.chapters[chapterTranslationKey(id, locale)]; ok {
			out = append(out, cloneChapterTranslation(record))
		}
	}
	return out, nil
}

// MemoryLocaleRepository is an in-memory locale registry for scaffolding/tests.
type MemoryLocaleRepository struct {
	mu      sync.RWMutex
	locales map[string]*Locale
	order   []string
}

// NewMemoryLocaleRepository constructs the repository.
func NewMemoryLocaleRepository() *MemoryLocaleRepository {
	return &MemoryLocaleRepository{
		locales: make(map[string]*Locale),
	}
}

// Upsert inserts or replaces a locale keyed by its code.
func (m *MemoryLocaleRepository) Upsert(_ context.Context, record *Locale) (*Locale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneLocale(record)
	code := strings.ToLower(strings.TrimSpace(copied.Code))
	copied.Code = code
	if _, ok := m.locales[code]; !ok {
		m.order = append(m.order, code)
	}
	m.locales[code] = copied
	return cloneLocale(copied), nil
}

// GetByCode retrieves a locale by its code.
func (m *MemoryLocaleRepository) GetByCode(_ context.Context, code string) (*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.locales[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return nil, &LocaleNotFoundError{Code: code}
	}
	return cloneLocale(record), nil
}

// List returns every registered locale in insertion order.
func (m *MemoryLocaleRepository) List(_ context.Context) ([]*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Locale, 0, len(m.order))
	for _, code := range m.order {
		out = append(out, cloneLocale(m.locales[code]))
	}
	return out, nil
}

func workSlugKey(kind WorkKind, slug string) string {
	return string(kind) + "/" + strings.ToLower(strings.TrimSpace(slug))
}

func chapterOrdinalKey(workID uuid.UUID, ordinal int) string {
	return fmt.Sprintf("%s/%d", workID, ordinal)
}

func workTranslationKey(kind WorkKind, workID uuid.UUID, locale string) string {
	return string(kind) + "/" + workID.String() + "/" + strings.ToLower(strings.TrimSpace(locale))
}

func chapterTranslationKey(chapterID uuid.UUID, locale string) string {
	return chapterID.String() + "/" + strings.ToLower(strings.TrimSpace(locale))
}

func sortWorksNewestFirst(works []*Work) {
	sort.Slice(works, func(i, j int) bool {
		left := workSortTime(works[i])
		right := workSortTime(works[j])
		if left.Equal(right) {
			return works[i].Slug < works[j].Slug
		}
		return left.After(right)
	})
}

func workSortTime(w *Work) time.Time {
	if w.PublishedAt != nil {
		return *w.PublishedAt
	}
	return w.CreatedAt
}

func cloneWork(record *Work) *Work {
	if record == nil {
		return nil
	}
	copied := *record
	copied.Description = cloneStringPointer(record.Description)
	copied.PublishedAt = cloneTimePointer(record.PublishedAt)
	copied.DefaultLocale = cloneStringPointer(record.DefaultLocale)
	copied.CoverImageURL = cloneStringPointer(record.CoverImageURL)
	copied.DeletedAt = cloneTimePointer(record.DeletedAt)
	copied.Chapters = nil
	copied.Translations = nil
	return &copied
}

func cloneChapter(record *Chapter) *Chapter {
	if record == nil {
		return nil
	}
	copied := *record
	copied.Title = cloneStringPointer(record.Title)
	copied.Body = cloneStringPointer(record.Body)
	copied.DeletedAt = cloneTimePointer(record.DeletedAt)
	copied.Translations = nil
	return &copied
}

func cloneWorkTranslation(record *WorkTranslation) *WorkTranslation {
	if record == nil {
		return nil
	}
	copied := *record
	copied.Title = cloneStringPointer(record.Title)
	copied.Description = cloneStringPointer(record.Description)
	copied.Body = cloneStringPointer(record.Body)
	copied.DeletedAt = cloneTimePointer(record.DeletedAt)
	return &copied
}

func cloneChapterTranslation(record *ChapterTranslation) *ChapterTranslation {
	if record == nil {
		return nil
	}
	copied := *record
	copied.Title = cloneStringPointer(record.Title)
	copied.Body = cloneStringPointer(record.Body)
	copied.DeletedAt = cloneTimePointer(record.DeletedAt)
	return &copied
}

func cloneLocale(record *Locale) *Locale {
	if record == nil {
		return nil
	}
	copied := *record
	copied.NativeName = cloneStringPointer(record.NativeName)
	copied.DeletedAt = cloneTimePointer(record.DeletedAt)
	return &copied
}

func cloneStringPointer(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneTimePointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
