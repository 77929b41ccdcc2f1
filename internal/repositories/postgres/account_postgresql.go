package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sinc-lab/institute-service/internal/cache"
	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/repositories"
)

type AccountPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAccountPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.AccountRepository {
	return &AccountPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (a *AccountPostgreSQL) Create(ctx context.Context, account *models.Account) error {
	if err := a.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: account email %s", repositories.ErrDuplicateKey, account.Email)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID rides the account cache so session hydration does not hit the
// database on every request. Lifecycle writes invalidate the entry.
func (a *AccountPostgreSQL) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	cacheKey := fmt.Sprintf("id:%s", id)

	err := a.cacheManager.Account.CacheOrExecute(ctx, cacheKey, &account, cache.AccountCacheConfig.TTL, func() (interface{}, error) {
		var fresh models.Account
		if err := a.db.WithContext(ctx).First(&fresh, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: account %s", repositories.ErrNotFound, id)
			}
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		return &fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (a *AccountPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account email %s", repositories.ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &account, nil
}

// UpdateFields applies a partial update in a single UPDATE statement.
// Paired lifecycle fields (verification status + role + verifier stamp)
// go through here so no reader ever observes them half-applied.
func (a *AccountPostgreSQL) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := a.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update account fields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: account %s", repositories.ErrNotFound, id)
	}
	cache.InvalidateAccountCache(ctx, a.cacheManager, id)
	return nil
}

func (a *AccountPostgreSQL) ListPendingStaff(ctx context.Context, filters repositories.AccountFilters) ([]*models.Account, int64, error) {
	var accounts []*models.Account
	var total int64

	query := a.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("staff_verification_status = ?", models.StaffPending)

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending staff: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Order("updated_at ASC").Find(&accounts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list pending staff: %w", err)
	}

	return accounts, total, nil
}

// staffDirectoryPage is the cacheable shape of one directory query.
type staffDirectoryPage struct {
	Accounts []*models.Account `json:"accounts"`
	Total    int64             `json:"total"`
}

// ListVerifiedStaff serves the public staff directory: verified accounts
// without a pending deletion, ordered by name. Pages ride the short-lived
// cache and are dropped whenever any account changes.
func (a *AccountPostgreSQL) ListVerifiedStaff(ctx context.Context, filters repositories.AccountFilters) ([]*models.Account, int64, error) {
	var page staffDirectoryPage
	cacheKey := fmt.Sprintf("staff:%s:%d:%d", filters.Query, filters.Limit, filters.Offset)

	err := a.cacheManager.Fast.CacheOrExecute(ctx, cacheKey, &page, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		var fresh staffDirectoryPage

		query := a.db.WithContext(ctx).
			Model(&models.Account{}).
			Where("staff_verification_status = ?", models.StaffVerified).
			Where("deletion_requested_at IS NULL")

		if filters.Query != "" {
			pattern := "%" + filters.Query + "%"
			query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
		}

		if err := query.Count(&fresh.Total).Error; err != nil {
			return nil, fmt.Errorf("failed to count verified staff: %w", err)
		}

		if filters.Limit > 0 {
			query = query.Limit(filters.Limit).Offset(filters.Offset)
		}

		if err := query.Order("name ASC").Find(&fresh.Accounts).Error; err != nil {
			return nil, fmt.Errorf("failed to list verified staff: %w", err)
		}
		return &fresh, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Accounts, page.Total, nil
}
