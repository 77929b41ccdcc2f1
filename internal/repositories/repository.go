package repositories

import "context"

// Repository aggregates all repository interfaces.
type Repository interface {
	// Account domain
	Account() AccountRepository
	LinkedIdentity() LinkedIdentityRepository
	Profile() ProfileRepository
	Language() LanguageRepository

	// Content domain
	Content() ContentRepository

	// Transaction support. The callback receives a Repository whose
	// operations all run inside one store transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
