package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sinc-lab/institute-service/internal/cache"
	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/repositories"
)

type ContentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewContentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ContentRepository {
	return &ContentPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *ContentPostgreSQL) GetByKey(ctx context.Context, key string) (*models.ContentEntry, error) {
	var entry models.ContentEntry
	cacheKey := fmt.Sprintf("entry:%s", key)

	err := r.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &entry, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbEntry models.ContentEntry
		if err := r.db.WithContext(ctx).
			Preload("Translations").
			First(&dbEntry, "key = ?", key).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: content %s", repositories.ErrNotFound, key)
			}
			return nil, fmt.Errorf("failed to get content entry: %w", err)
		}
		return &dbEntry, nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *ContentPostgreSQL) List(ctx context.Context) ([]*models.ContentEntry, error) {
	var entries []*models.ContentEntry
	err := r.db.WithContext(ctx).
		Preload("Translations").
		Order("key ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list content entries: %w", err)
	}
	return entries, nil
}

func (r *ContentPostgreSQL) UpsertEntry(ctx context.Context, entry *models.ContentEntry) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "description", "updated_at"}),
		}).
		Omit("Translations").
		Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert content entry: %w", err)
	}

	cache.InvalidateContentCache(ctx, r.cacheManager, entry.Key)
	return nil
}

// UpsertTranslation writes one (content, language) value. At most one row
// per pair exists; rewrites overwrite in place and drop the cached
// resolutions for the key.
func (r *ContentPostgreSQL) UpsertTranslation(ctx context.Context, key string, translation *models.Translation) error {
	var entry models.ContentEntry
	if err := r.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: content %s", repositories.ErrNotFound, key)
		}
		return fmt.Errorf("failed to resolve content key: %w", err)
	}

	translation.ContentID = entry.ID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_id"}, {Name: "language"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(translation).Error
	if err != nil {
		return fmt.Errorf("failed to upsert translation: %w", err)
	}

	cache.InvalidateContentCache(ctx, r.cacheManager, key)
	return nil
}
