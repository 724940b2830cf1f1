package catalog

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunWorkRepository is the SQL-backed WorkRepository.
type BunWorkRepository struct {
	db   *bun.DB
	repo repository.Repository[*Work]
}

func NewBunWorkRepository(db *bun.DB) *BunWorkRepository {
	return NewBunWorkRepositoryWithCache(db, nil, nil)
}

// NewBunWorkRepositoryWithCache constructs a WorkRepository backed by bun with optional caching.
func NewBunWorkRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunWorkRepository {
	return &BunWorkRepository{
		db:   db,
		repo: wrapWithCache(NewWorkRepository(db), cacheService, keySerializer),
	}
}

func (r *BunWorkRepository) Create(ctx context.Context, record *Work) (*Work, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "work", record.Slug, nil)
	}
	return created, nil
}

func (r *BunWorkRepository) GetByID(ctx context.Context, kind WorkKind, id uuid.UUID) (*Work, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id = ?", id)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyKindFilter(q, kind)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "work", id.String(), &WorkNotFoundError{Kind: kind, Key: id.String()})
	}
	if len(records) == 0 {
		return nil, &WorkNotFoundError{Kind: kind, Key: id.String()}
	}
	return records[0], nil
}

func (r *BunWorkRepository) GetBySlug(ctx context.Context, kind WorkKind, slug string) (*Work, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyKindFilter(q, kind)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "work", slug, &WorkNotFoundError{Kind: kind, Key: slug})
	}
	if len(records) == 0 {
		return nil, &WorkNotFoundError{Kind: kind, Key: slug}
	}
	return records[0], nil
}

func (r *BunWorkRepository) List(ctx context.Context, kind WorkKind) ([]*Work, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyKindFilter(q, kind)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at DESC")
		}),
	)
	return records, err
}

// ListPublished applies the publication gate in SQL: published status or an
// explicit published_at both count as visible.
func (r *BunWorkRepository) ListPublished(ctx context.Context, kind WorkKind) ([]*Work, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyKindFilter(q, kind)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("(?TableAlias.status = ? OR ?TableAlias.published_at IS NOT NULL)", "published")
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.published_at DESC NULLS LAST, ?TableAlias.created_at DESC")
		}),
	)
	return records, err
}

func (r *BunWorkRepository) Update(ctx context.Context, record *Work) (*Work, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"slug",
			"title",
			"description",
			"status",
			"published_at",
			"default_locale",
			"cover_image_url",
			"updated_by",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "work", record.ID.String(), &WorkNotFoundError{Kind: record.Kind, Key: record.ID.String()})
	}
	return updated, nil
}

func (r *BunWorkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("work repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*WorkTranslation)(nil)).
			Where("?TableAlias.work_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete work translations: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*ChapterTranslation)(nil)).
			Where("?TableAlias.chapter_id IN (SELECT id FROM chapters WHERE work_id = ?)", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete chapter translations: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*Chapter)(nil)).
			Where("?TableAlias.work_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete chapters: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*Work)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete work: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("work delete rows affected: %w", err)
		}
		if affected == 0 {
			return &WorkNotFoundError{Key: id.String()}
		}
		return nil
	})
}

// BunChapterRepository is the SQL-backed ChapterRepository.
type BunChapterRepository struct {
	db   *bun.DB
	repo repository.Repository[*Chapter]
}

func NewBunChapterRepository(db *bun.DB) *BunChapterRepository {
	return NewBunChapterRepositoryWithCache(db, nil, nil)
}

// NewBunChapterRepositoryWithCache constructs a ChapterRepository backed by bun with optional caching.
func NewBunChapterRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunChapterRepository {
	return &BunChapterRepository{
		db:   db,
		repo: wrapWithCache(NewChapterRepository(db), cacheService, keySerializer),
	}
}

func (r *BunChapterRepository) Create(ctx context.Context, record *Chapter) (*Chapter, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "chapter", record.ID.String(), nil)
	}
	return created, nil
}

func (r *BunChapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*Chapter, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "chapter", id.String(), &ChapterNotFoundError{Key: id.String()})
	}
	return result, nil
}

func (r *BunChapterRepository) GetByOrdinal(ctx context.Context, workID uuid.UUID, ordinal int) (*Chapter, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.work_id = ?", workID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.ordinal = ?", ordinal)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "chapter", workID.String(), &ChapterNotFoundError{WorkID: workID, Ordinal: ordinal})
	}
	if len(records) == 0 {
		return nil, &ChapterNotFoundError{WorkID: workID, Ordinal: ordinal}
	}
	return records[0], nil
}

func (r *BunChapterRepository) ListByWork(ctx context.Context, workID uuid.UUID) ([]*Chapter, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.work_id = ?", workID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.ordinal ASC")
		}),
	)
	return records, err
}

func (r *BunChapterRepository) Update(ctx context.Context, record *Chapter) (*Chapter, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"ordinal",
			"title",
			"body",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "chapter", record.ID.String(), &ChapterNotFoundError{Key: record.ID.String()})
	}
	return updated, nil
}

func (r *BunChapterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("chapter repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ChapterTranslation)(nil)).
			Where("?TableAlias.chapter_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete chapter translations: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*Chapter)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete chapter: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("chapter delete rows affected: %w", err)
		}
		if affected == 0 {
			return &ChapterNotFoundError{Key: id.String()}
		}
		return nil
	})
}

// BunTranslationRepository is the SQL-backed TranslationRepository.
type BunTranslationRepository struct {
	db       *bun.DB
	works    repository.Repository[*WorkTranslation]
	chapters repository.Repository[*ChapterTranslation]
}

func NewBunTranslationRepository(db *bun.DB) *BunTranslationRepository {
	return NewBunTranslationRepositoryWithCache(db, nil, nil)
}

// NewBunTranslationRepositoryWithCache constructs a TranslationRepository backed by bun with optional caching.
func NewBunTranslationRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunTranslationRepository {
	return &BunTranslationRepository{
		db:       db,
		works:    wrapWithCache(NewWorkTranslationRepository(db), cacheService, keySerializer),
		chapters: wrapWithCache(NewChapterTranslationRepository(db), cacheService, keySerializer),
	}
}

func (r *BunTranslationRepository) UpsertWorkTranslation(ctx context.Context, record *WorkTranslation) (*WorkTranslation, error) {
	existing, _, err := r.works.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.kind = ?", string(record.Kind)).
				Where("?TableAlias.work_id = ?", record.WorkID).
				Where("?TableAlias.locale = ?", record.Locale)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "work translation", record.Locale, nil)
	}
	if len(existing) == 0 {
		return r.works.Create(ctx, record)
	}

	record.ID = existing[0].ID
	return r.works.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("title", "description", "body", "updated_at"),
	)
}

func (r *BunTranslationRepository) UpsertChapterTranslation(ctx context.Context, record *ChapterTranslation) (*ChapterTranslation, error) {
	existing, _, err := r.chapters.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.chapter_id = ?", record.ChapterID).
				Where("?TableAlias.locale = ?", record.Locale)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "chapter translation", record.Locale, nil)
	}
	if len(existing) == 0 {
		return r.chapters.Create(ctx, record)
	}

	record.ID = existing[0].ID
	return r.chapters.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("title", "body", "updated_at"),
	)
}

func (r *BunTranslationRepository) DeleteWorkTranslation(ctx context.Context, kind WorkKind, workID uuid.UUID, locale string) error {
	if r.db == nil {
		return fmt.Errorf("translation repository: database not configured")
	}

	result, err := r.db.NewDelete().
		Model((*WorkTranslation)(nil)).
		Where("?TableAlias.kind = ?", string(kind)).
		Where("?TableAlias.work_id = ?", workID).
		Where("?TableAlias.locale = ?", locale).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete work translation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("work translation delete rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTranslationNotFound
	}
	return nil
}

func (r *BunTranslationRepository) DeleteChapterTranslation(ctx context.Context, chapterID uuid.UUID, locale string) error {
	if r.db == nil {
		return fmt.Errorf("translation repository: database not configured")
	}

	result, err := r.db.NewDelete().
		Model((*ChapterTranslation)(nil)).
		Where("?TableAlias.chapter_id = ?", chapterID).
		Where("?TableAlias.locale = ?", locale).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete chapter translation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("chapter translation delete rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTranslationNotFound
	}
	return nil
}

func (r *BunTranslationRepository) ListWorkTranslations(ctx context.Context, kind WorkKind, workIDs []uuid.UUID, locale string) ([]*WorkTranslation, error) {
	if len(workIDs) == 0 {
		return nil, nil
	}
	records, _, err := r.works.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.kind = ?", string(kind)).
				Where("?TableAlias.work_id IN (?)", bun.In(workIDs)).
				Where("?TableAlias.locale = ?", locale)
		}),
	)
	return records, err
}

func (r *BunTranslationRepository) ListChapterTranslations(ctx context.Context, chapterIDs []uuid.UUID, locale string) ([]*ChapterTranslation, error) {
	if len(chapterIDs) == 0 {
		return nil, nil
	}
	records, _, err := r.chapters.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.chapter_id IN (?)", bun.In(chapterIDs)).
				Where("?TableAlias.locale = ?", locale)
		}),
	)
	return records, err
}

// BunLocaleRepository is the SQL-backed LocaleRepository.
type BunLocaleRepository struct {
	db   *bun.DB
	repo repository.Repository[*Locale]
}

func NewBunLocaleRepository(db *bun.DB) *BunLocaleRepository {
	return NewBunLocaleRepositoryWithCache(db, nil, nil)
}

// NewBunLocaleRepositoryWithCache constructs a LocaleRepository backed by bun with optional caching.
func NewBunLocaleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunLocaleRepository {
	return &BunLocaleRepository{
		db:   db,
		repo: wrapWithCache(NewLocaleRepository(db), cacheService, keySerializer),
	}
}

func (r *BunLocaleRepository) Upsert(ctx context.Context, record *Locale) (*Locale, error) {
	existing, err := r.GetByCode(ctx, record.Code)
	if err != nil {
		if errors.Is(err, ErrUnknownLocale) {
			return r.repo.Create(ctx, record)
		}
		return nil, err
	}

	record.ID = existing.ID
	return r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("display_name", "native_name", "is_active", "is_default"),
	)
}

func (r *BunLocaleRepository) GetByCode(ctx context.Context, code string) (*Locale, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.code = ?", code)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "locale", code, &LocaleNotFoundError{Code: code})
	}
	if len(records) == 0 {
		return nil, &LocaleNotFoundError{Code: code}
	}
	return records[0], nil
}

func (r *BunLocaleRepository) List(ctx context.Context) ([]*Locale, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.code ASC")
		}),
	)
	return records, err
}

func applyKindFilter(q *bun.SelectQuery, kind WorkKind) *bun.SelectQuery {
	if q == nil {
		return q
	}
	return q.Where("?TableAlias.kind = ?", string(kind))
}

func mapRepositoryError(err error, resource, key string, notFound error) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		if notFound != nil {
			return notFound
		}
		return fmt.Errorf("%s %q not found: %w", resource, key, err)
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
