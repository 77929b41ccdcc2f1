package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/validator"
)

func newTestContentService(t *testing.T) (ContentService, *mockRepository) {
	t.Helper()
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewContentService(repo, logger, validator.New())
	return svc, repo
}

func seedHomeDescription(repo *mockRepository) {
	repo.entries["home.description"] = &models.ContentEntry{
		ID:   1,
		Key:  "home.description",
		Type: models.ContentHomeDescription,
		Translations: []models.Translation{
			{ContentID: 1, Language: models.LanguageEN, Value: "Welcome to the institute"},
			{ContentID: 1, Language: models.LanguageES, Value: "Bienvenido al instituto"},
		},
	}
}

func TestResolveReturnsRequestedLanguage(t *testing.T) {
	svc, repo := newTestContentService(t)
	seedHomeDescription(repo)

	value, err := svc.Resolve(context.Background(), "home.description", models.LanguageES)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if value != "Bienvenido al instituto" {
		t.Errorf("value = %q, want the Spanish translation", value)
	}
}

func TestResolveFallsBackToEnglish(t *testing.T) {
	svc, repo := newTestContentService(t)
	seedHomeDescription(repo)

	// FR has no translation; the fallback is EN, never another locale.
	value, err := svc.Resolve(context.Background(), "home.description", models.LanguageFR)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if value != "Welcome to the institute" {
		t.Errorf("value = %q, want the English fallback", value)
	}
}

func TestResolveMissingEverythingReturnsKey(t *testing.T) {
	svc, repo := newTestContentService(t)

	// Unknown key.
	value, err := svc.Resolve(context.Background(), "nav.missing", models.LanguageEN)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if value != "nav.missing" {
		t.Errorf("value = %q, want the key itself", value)
	}

	// Known key with no translation at all, not even EN.
	repo.entries["footer.copyright"] = &models.ContentEntry{
		ID: 2, Key: "footer.copyright", Type: models.ContentFooter,
	}
	value, err = svc.Resolve(context.Background(), "footer.copyright", models.LanguageES)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if value != "footer.copyright" {
		t.Errorf("value = %q, want the key itself", value)
	}
}

func TestResolveEmptyKeyIsInvalid(t *testing.T) {
	svc, _ := newTestContentService(t)

	_, err := svc.Resolve(context.Background(), "", models.LanguageEN)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Errorf("expected validation errors, got %v", err)
	}
}

func TestResolveStoreFailureStillReturnsKey(t *testing.T) {
	svc, repo := newTestContentService(t)
	repo.contentErr = errors.New("connection reset")

	value, err := svc.Resolve(context.Background(), "home.description", models.LanguageEN)
	if !IsStoreError(err) {
		t.Errorf("expected store error, got %v", err)
	}
	if value != "home.description" {
		t.Errorf("value = %q, want the key as degraded output", value)
	}
}

func TestUpsertContentAndTranslation(t *testing.T) {
	svc, repo := newTestContentService(t)
	seedActiveAdmin(repo, "admin-1")

	entry, err := svc.UpsertContent(context.Background(), "admin-1", &ContentUpsertRequest{
		Key:  "home.description",
		Type: string(models.ContentHomeDescription),
	})
	if err != nil {
		t.Fatalf("UpsertContent() error = %v", err)
	}
	if entry.Key != "home.description" || entry.Type != models.ContentHomeDescription {
		t.Errorf("unexpected entry: %+v", entry)
	}

	if err := svc.UpsertTranslation(context.Background(), "admin-1", &TranslationUpsertRequest{
		Key: "home.description", Language: "EN", Value: "Welcome",
	}); err != nil {
		t.Fatalf("UpsertTranslation() error = %v", err)
	}

	value, err := svc.Resolve(context.Background(), "home.description", models.LanguageEN)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if value != "Welcome" {
		t.Errorf("value = %q, want %q", value, "Welcome")
	}

	// A second write for the same language overwrites, it does not stack.
	if err := svc.UpsertTranslation(context.Background(), "admin-1", &TranslationUpsertRequest{
		Key: "home.description", Language: "EN", Value: "Welcome back",
	}); err != nil {
		t.Fatalf("UpsertTranslation() error = %v", err)
	}
	value, _ = svc.Resolve(context.Background(), "home.description", models.LanguageEN)
	if value != "Welcome back" {
		t.Errorf("value = %q, want %q", value, "Welcome back")
	}
	if n := len(repo.entries["home.description"].Translations); n != 1 {
		t.Errorf("expected 1 translation row, got %d", n)
	}
}

func TestUpsertTranslationUnknownKey(t *testing.T) {
	svc, repo := newTestContentService(t)
	seedActiveAdmin(repo, "admin-1")

	err := svc.UpsertTranslation(context.Background(), "admin-1", &TranslationUpsertRequest{
		Key: "no.such.key", Language: "EN", Value: "x",
	})
	if err != ErrContentNotFound {
		t.Errorf("expected ErrContentNotFound, got %v", err)
	}
}

func TestContentManagementRequiresAdmin(t *testing.T) {
	svc, repo := newTestContentService(t)
	repo.seedAccount(&models.Account{ID: "acc-1", Email: "a@sinc.example", Role: models.RoleUser})

	if _, err := svc.List(context.Background(), "acc-1"); !IsAuthorizationError(err) {
		t.Errorf("List: expected authorization error, got %v", err)
	}
	if _, err := svc.UpsertContent(context.Background(), "acc-1", &ContentUpsertRequest{
		Key: "home.description", Type: string(models.ContentHomeDescription),
	}); !IsAuthorizationError(err) {
		t.Errorf("UpsertContent: expected authorization error, got %v", err)
	}
	if err := svc.UpsertTranslation(context.Background(), "acc-1", &TranslationUpsertRequest{
		Key: "home.description", Language: "EN", Value: "x",
	}); !IsAuthorizationError(err) {
		t.Errorf("UpsertTranslation: expected authorization error, got %v", err)
	}
	if _, err := svc.List(context.Background(), ""); !IsAuthenticationError(err) {
		t.Errorf("List without session: expected authentication error, got %v", err)
	}
}
