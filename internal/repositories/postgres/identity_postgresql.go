package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/repositories"
)

type LinkedIdentityPostgreSQL struct {
	db *gorm.DB
}

func NewLinkedIdentityPostgreSQL(db *gorm.DB) repositories.LinkedIdentityRepository {
	return &LinkedIdentityPostgreSQL{db: db}
}

func (r *LinkedIdentityPostgreSQL) Create(ctx context.Context, identity *models.LinkedIdentity) error {
	if err := r.db.WithContext(ctx).Create(identity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: identity %s/%s", repositories.ErrDuplicateKey, identity.Provider, identity.ProviderAccountID)
		}
		return fmt.Errorf("failed to create linked identity: %w", err)
	}
	return nil
}

func (r *LinkedIdentityPostgreSQL) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*models.LinkedIdentity, error) {
	var identity models.LinkedIdentity
	err := r.db.WithContext(ctx).
		First(&identity, "provider = ? AND provider_account_id = ?", provider, providerAccountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: identity %s/%s", repositories.ErrNotFound, provider, providerAccountID)
		}
		return nil, fmt.Errorf("failed to get linked identity: %w", err)
	}
	return &identity, nil
}
