package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sinc-lab/institute-service/internal/cache"
	"github.com/sinc-lab/institute-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	account        repositories.AccountRepository
	linkedIdentity repositories.LinkedIdentityRepository
	profile        repositories.ProfileRepository
	language       repositories.LanguageRepository
	content        repositories.ContentRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.account = NewAccountPostgreSQL(config.DB, cacheManager)
	repo.linkedIdentity = NewLinkedIdentityPostgreSQL(config.DB)
	repo.profile = NewProfilePostgreSQL(config.DB)
	repo.language = NewLanguagePostgreSQL(config.DB)
	repo.content = NewContentPostgreSQL(config.DB, cacheManager)

	return repo
}

// Account returns the account repository
func (r *PostgreSQLRepository) Account() repositories.AccountRepository {
	return r.account
}

// LinkedIdentity returns the external identity repository
func (r *PostgreSQLRepository) LinkedIdentity() repositories.LinkedIdentityRepository {
	return r.linkedIdentity
}

// Profile returns the profile repository
func (r *PostgreSQLRepository) Profile() repositories.ProfileRepository {
	return r.profile
}

// Language returns the language preference repository
func (r *PostgreSQLRepository) Language() repositories.LanguageRepository {
	return r.language
}

// Content returns the content repository
func (r *PostgreSQLRepository) Content() repositories.ContentRepository {
	return r.content
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create a new repository instance bound to the transaction
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		txRepo.account = NewAccountPostgreSQL(tx, r.cacheManager)
		txRepo.linkedIdentity = NewLinkedIdentityPostgreSQL(tx)
		txRepo.profile = NewProfilePostgreSQL(tx)
		txRepo.language = NewLanguagePostgreSQL(tx)
		txRepo.content = NewContentPostgreSQL(tx, r.cacheManager)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	return nil
}

// repositoryManager implements repositories.RepositoryManager
type repositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a repository manager for lifecycle handling
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
