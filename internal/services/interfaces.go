package services

import (
	"context"

	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/repositories"
	"github.com/sinc-lab/institute-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CompleteRegistrationRequest = validator.CompleteRegistrationRequest
type VerifyStaffRequest = validator.VerifyStaffRequest
type ContentUpsertRequest = validator.ContentUpsertRequest
type TranslationUpsertRequest = validator.TranslationUpsertRequest

// ExternalIdentity is what the identity provider yields after a successful
// external authentication. Token fields are opaque pass-through storage.
type ExternalIdentity struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	AvatarURL         string

	AccessToken  *string
	RefreshToken *string
	IDToken      *string
	TokenType    *string
	Scope        *string
	ExpiresAt    *int64
}

// SignInResult is the lifecycle decision for one sign-in attempt.
type SignInResult struct {
	Account *models.Account
	State   models.AccountState

	// Created is true when this sign-in created the account.
	Created bool

	// Allowed is false when the sign-in must not yield a session
	// (staff claim still pending). RedirectTo carries the surface the
	// caller should land on either way.
	Allowed    bool
	RedirectTo string
}

// PendingStaffList is the admin verification queue page.
type PendingStaffList struct {
	Accounts []*models.PendingStaffView `json:"accounts"`
	Total    int64                      `json:"total"`
}

// StaffDirectory is one page of the public staff listing.
type StaffDirectory struct {
	Members []*models.VerifiedStaffView `json:"members"`
	Total   int64                       `json:"total"`
}

// AccountFilters re-exported for handlers.
type AccountFilters = repositories.AccountFilters

// VerificationAction is an administrator's decision on a staff claim.
type VerificationAction string

const (
	ActionApprove VerificationAction = "approve"
	ActionReject  VerificationAction = "reject"
)

// ===== SERVICE INTERFACES =====

// AccountService is the account lifecycle and staff-verification state
// machine.
type AccountService interface {
	// SignIn resolves an external authentication into an account,
	// creating and binding as needed, and decides whether a session may
	// be granted.
	SignIn(ctx context.Context, ext *ExternalIdentity) (*SignInResult, error)

	// CompleteRegistration applies the registration form. Idempotent;
	// a staff claim moves the account to awaiting verification.
	CompleteRegistration(ctx context.Context, callerID, accountID string, req *CompleteRegistrationRequest) (*models.Account, error)

	// DecideStaffVerification applies an administrator's approve/reject
	// decision. Status and role always change together.
	DecideStaffVerification(ctx context.Context, callerID, targetID string, action VerificationAction) (*models.Account, error)

	// RequestDeletion records a self-service deletion request without
	// removing the account.
	RequestDeletion(ctx context.Context, callerID, accountID string) (*models.Account, error)

	GetLanguage(ctx context.Context, accountID string) (models.Language, error)
	SetLanguage(ctx context.Context, callerID, accountID string, language models.Language) error

	// SessionView projects an account into its outward session shape.
	SessionView(ctx context.Context, accountID string) (*models.PublicSessionView, error)

	ListPendingStaff(ctx context.Context, callerID string, filters AccountFilters) (*PendingStaffList, error)

	// ListVerifiedStaff returns the public staff directory: verified
	// members ordered by name. No session is required.
	ListVerifiedStaff(ctx context.Context, filters AccountFilters) (*StaffDirectory, error)

	// GetVerifiedStaff returns one directory entry, or not-found for
	// any account the directory does not show.
	GetVerifiedStaff(ctx context.Context, id string) (*models.VerifiedStaffView, error)

	// ExportPendingStaff renders the verification queue as an xlsx
	// workbook for offline review.
	ExportPendingStaff(ctx context.Context, callerID string) ([]byte, error)
}

// ContentService resolves localized site copy and manages it.
type ContentService interface {
	// Resolve returns the best-available value for (key, language):
	// the requested language, the EN fallback, or the key itself. It
	// never returns an empty string.
	Resolve(ctx context.Context, key string, language models.Language) (string, error)

	List(ctx context.Context, callerID string) ([]*models.ContentEntry, error)
	UpsertContent(ctx context.Context, callerID string, req *ContentUpsertRequest) (*models.ContentEntry, error)
	UpsertTranslation(ctx context.Context, callerID string, req *TranslationUpsertRequest) error
}

// ServiceManager wires and owns all services.
type ServiceManager interface {
	Account() AccountService
	Content() ContentService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
