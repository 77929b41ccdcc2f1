package services

import (
	"context"
	"log/slog"

	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/repositories"
	"github.com/sinc-lab/institute-service/internal/validator"
)

type contentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewContentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ContentService {
	return &contentService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

// Resolve returns the value for (key, language) with a single-level
// fallback to EN. Additional languages degrade straight to EN, never to
// any other intermediate locale. A miss returns the key itself so the
// caller always has something human-visible to render; a store failure
// also returns the key alongside the error.
func (s *contentService) Resolve(ctx context.Context, key string, language models.Language) (string, error) {
	if key == "" {
		return "", validator.ValidationErrors{{
			Field:   "key",
			Message: "is required",
			Rule:    "required",
		}}
	}

	entry, err := s.repo.Content().GetByKey(ctx, key)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return key, nil
		}
		return key, NewStoreError("resolve content", err)
	}

	if value, ok := translationFor(entry, language); ok {
		return value, nil
	}
	if language != models.DefaultLanguage {
		if value, ok := translationFor(entry, models.DefaultLanguage); ok {
			return value, nil
		}
	}

	return key, nil
}

func translationFor(entry *models.ContentEntry, language models.Language) (string, bool) {
	for _, t := range entry.Translations {
		if t.Language == language {
			return t.Value, true
		}
	}
	return "", false
}

func (s *contentService) List(ctx context.Context, callerID string) ([]*models.ContentEntry, error) {
	if err := s.requireAdmin(ctx, callerID, "list_content"); err != nil {
		return nil, err
	}

	entries, err := s.repo.Content().List(ctx)
	if err != nil {
		return nil, NewStoreError("list content", err)
	}
	return entries, nil
}

func (s *contentService) UpsertContent(ctx context.Context, callerID string, req *ContentUpsertRequest) (*models.ContentEntry, error) {
	if err := s.requireAdmin(ctx, callerID, "upsert_content"); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateContentUpsert(req); len(errs) > 0 {
		return nil, errs
	}

	contentType, _ := models.ParseContentType(req.Type)
	entry := &models.ContentEntry{
		Key:         req.Key,
		Type:        contentType,
		Description: req.Description,
	}

	if err := s.repo.Content().UpsertEntry(ctx, entry); err != nil {
		return nil, NewStoreError("upsert content", err)
	}

	s.logger.Info("content entry upserted", "key", req.Key, "by", callerID)

	stored, err := s.repo.Content().GetByKey(ctx, req.Key)
	if err != nil {
		return nil, NewStoreError("upsert content", err)
	}
	return stored, nil
}

func (s *contentService) UpsertTranslation(ctx context.Context, callerID string, req *TranslationUpsertRequest) error {
	if err := s.requireAdmin(ctx, callerID, "upsert_translation"); err != nil {
		return err
	}

	if errs := s.validator.GetBusinessValidator().ValidateTranslationUpsert(req); len(errs) > 0 {
		return errs
	}

	language, _ := models.ParseLanguage(req.Language)
	translation := &models.Translation{
		Language: language,
		Value:    req.Value,
	}

	if err := s.repo.Content().UpsertTranslation(ctx, req.Key, translation); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrContentNotFound
		}
		return NewStoreError("upsert translation", err)
	}

	s.logger.Info("translation upserted", "key", req.Key, "language", req.Language, "by", callerID)
	return nil
}

func (s *contentService) requireAdmin(ctx context.Context, callerID, action string) error {
	if callerID == "" {
		return NewAuthenticationError("no session")
	}
	caller, err := s.repo.Account().GetByID(ctx, callerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewAuthorizationError(callerID, "", "content", action, "caller account not found")
		}
		return NewStoreError(action, err)
	}
	if caller.Role != models.RoleAdmin {
		return NewAuthorizationError(callerID, "", "content", action, "administrator role required")
	}
	return nil
}
