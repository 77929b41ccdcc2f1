package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sinc-lab/institute-service/internal/events"
	"github.com/sinc-lab/institute-service/internal/repositories"
	"github.com/sinc-lab/institute-service/internal/validator"
)

// serviceManager implements ServiceManager
type serviceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher

	accountService AccountService
	contentService ContentService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
// The event publisher may be nil when no broker is configured.
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (m *serviceManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return fmt.Errorf("service manager already initialized")
	}

	m.accountService = NewAccountService(m.repo, m.logger, m.validator, m.publisher)
	m.contentService = NewContentService(m.repo, m.logger, m.validator)

	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("store not reachable: %w", err)
	}

	m.initialized = true
	m.logger.Info("services initialized")
	return nil
}

func (m *serviceManager) Account() AccountService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accountService
}

func (m *serviceManager) Content() ContentService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentService
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			m.logger.Error("failed to close event publisher", "error", err)
		}
	}

	m.logger.Info("services shut down")
	return nil
}
