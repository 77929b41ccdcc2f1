package repositories

import (
	"context"

	"github.com/sinc-lab/institute-service/internal/models"
)

// AccountFilters defines filters for account queries
type AccountFilters struct {
	Query  string // Search query for name or email
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// AccountRepository owns the users table.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// UpdateFields applies a partial update as a single statement so that
	// paired fields (status + role, status + verifier + timestamp) are
	// never observable half-applied.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	ListPendingStaff(ctx context.Context, filters AccountFilters) ([]*models.Account, int64, error)

	// ListVerifiedStaff returns the public directory slice: verified
	// accounts without a pending deletion, ordered by name.
	ListVerifiedStaff(ctx context.Context, filters AccountFilters) ([]*models.Account, int64, error)
}

// LinkedIdentityRepository owns external OAuth bindings.
type LinkedIdentityRepository interface {
	Create(ctx context.Context, identity *models.LinkedIdentity) error
	GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*models.LinkedIdentity, error)
}

// ProfileRepository owns registration profile extras.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	GetByAccount(ctx context.Context, accountID string) (*models.Profile, error)
}

// LanguageRepository owns per-account language preferences.
type LanguageRepository interface {
	Get(ctx context.Context, accountID string) (*models.LanguagePreference, error)
	Upsert(ctx context.Context, pref *models.LanguagePreference) error
}

// ContentRepository owns content entries and their translations.
type ContentRepository interface {
	GetByKey(ctx context.Context, key string) (*models.ContentEntry, error)
	List(ctx context.Context) ([]*models.ContentEntry, error)
	UpsertEntry(ctx context.Context, entry *models.ContentEntry) error
	UpsertTranslation(ctx context.Context, key string, translation *models.Translation) error
}
