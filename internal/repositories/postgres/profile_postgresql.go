package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/repositories"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

// Upsert creates or updates the profile keyed by account id. Registration
// resubmission hits this path, so it must never create a second row.
func (r *ProfilePostgreSQL) Upsert(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"custom_links", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *ProfilePostgreSQL) GetByAccount(ctx context.Context, accountID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile for account %s", repositories.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

type LanguagePostgreSQL struct {
	db *gorm.DB
}

func NewLanguagePostgreSQL(db *gorm.DB) repositories.LanguageRepository {
	return &LanguagePostgreSQL{db: db}
}

func (r *LanguagePostgreSQL) Get(ctx context.Context, accountID string) (*models.LanguagePreference, error) {
	var pref models.LanguagePreference
	if err := r.db.WithContext(ctx).First(&pref, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: language preference for account %s", repositories.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to get language preference: %w", err)
	}
	return &pref, nil
}

// Upsert lazily creates the preference on first explicit selection and
// overwrites it on later ones.
func (r *LanguagePostgreSQL) Upsert(ctx context.Context, pref *models.LanguagePreference) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"language", "updated_at"}),
		}).
		Create(pref).Error
	if err != nil {
		return fmt.Errorf("failed to upsert language preference: %w", err)
	}
	return nil
}
