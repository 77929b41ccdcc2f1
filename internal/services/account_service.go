package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sinc-lab/institute-service/internal/events"
	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/repositories"
	"github.com/sinc-lab/institute-service/internal/validator"
)

// Redirect surfaces handed back with sign-in decisions.
const (
	RedirectDashboard            = "/dashboard"
	RedirectCompleteRegistration = "/complete-registration"
	RedirectSignInPending        = "/auth/signin?status=pending"
)

type accountService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAccountService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) AccountService {
	return &accountService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// ===== SIGN-IN =====

func (s *accountService) SignIn(ctx context.Context, ext *ExternalIdentity) (*SignInResult, error) {
	if ext.Email == "" || ext.Provider == "" || ext.ProviderAccountID == "" {
		return nil, validator.ValidationErrors{{
			Field:   "identity",
			Message: "email, provider and provider account id are required",
			Rule:    "required",
		}}
	}

	account, created, err := s.resolveAccount(ctx, ext)
	if err != nil {
		return nil, err
	}

	if created {
		s.publish(ctx, &events.Event{
			Type:      events.EventAccountCreated,
			AccountID: account.ID,
			Payload:   map[string]interface{}{"provider": ext.Provider},
		})
		s.logger.Info("account created on first sign-in", "account_id", account.ID, "provider", ext.Provider)
	}

	// Pending staff claims must not unlock any authenticated capability.
	// The sign-in is refused outright, not merely gated downstream.
	if account.StaffVerificationStatus == models.StaffPending {
		return &SignInResult{
			Account:    account,
			State:      models.StateAwaitingVerification,
			Created:    created,
			Allowed:    false,
			RedirectTo: RedirectSignInPending,
		}, nil
	}

	state := models.AccountStateOf(account)
	redirect := RedirectDashboard
	if state == models.StateRegistering {
		redirect = RedirectCompleteRegistration
	}

	return &SignInResult{
		Account:    account,
		State:      state,
		Created:    created,
		Allowed:    true,
		RedirectTo: redirect,
	}, nil
}

// resolveAccount finds or creates the account for an external identity:
// identity-pair lookup first, then email, then transactional create+bind.
func (s *accountService) resolveAccount(ctx context.Context, ext *ExternalIdentity) (*models.Account, bool, error) {
	identity, err := s.repo.LinkedIdentity().GetByProviderAccount(ctx, ext.Provider, ext.ProviderAccountID)
	if err == nil {
		account, err := s.repo.Account().GetByID(ctx, identity.AccountID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				// Identity row without its account is a broken bind.
				return nil, false, NewStoreError("sign-in", fmt.Errorf("identity %s/%s bound to missing account %s",
					ext.Provider, ext.ProviderAccountID, identity.AccountID))
			}
			return nil, false, NewStoreError("sign-in", err)
		}
		return account, false, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, false, NewStoreError("sign-in", err)
	}

	// Unseen identity pair: attach to the account owning this email, or
	// create a new account when none exists.
	account, err := s.repo.Account().GetByEmail(ctx, ext.Email)
	if err == nil {
		if err := s.bindIdentity(ctx, account, ext); err != nil {
			return nil, false, err
		}
		return account, false, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, false, NewStoreError("sign-in", err)
	}

	account = &models.Account{
		ID:                      uuid.New().String(),
		Email:                   ext.Email,
		Name:                    ext.Name,
		Role:                    models.RoleUser,
		StaffVerificationStatus: models.StaffUnverified,
		RegistrationComplete:    false,
	}
	if ext.AvatarURL != "" {
		avatar := ext.AvatarURL
		account.AvatarURL = &avatar
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Account().Create(ctx, account); err != nil {
			return err
		}
		return tx.LinkedIdentity().Create(ctx, s.newIdentity(account.ID, ext))
	})
	if err == nil {
		return account, true, nil
	}

	if !repositories.IsDuplicateKeyError(err) {
		return nil, false, NewStoreError("sign-in create", err)
	}

	// Lost a creation race. The duplicate may come from either unique
	// index: the identity pair was bound concurrently, or the email now
	// belongs to an account. Re-resolve in the same order as a fresh
	// sign-in, pair first.
	identity, lookupErr := s.repo.LinkedIdentity().GetByProviderAccount(ctx, ext.Provider, ext.ProviderAccountID)
	if lookupErr == nil {
		account, err := s.repo.Account().GetByID(ctx, identity.AccountID)
		if err != nil {
			return nil, false, NewStoreError("sign-in race recovery", err)
		}
		return account, false, nil
	}
	if !repositories.IsNotFoundError(lookupErr) {
		return nil, false, NewStoreError("sign-in race recovery", lookupErr)
	}

	account, err = s.repo.Account().GetByEmail(ctx, ext.Email)
	if err != nil {
		return nil, false, NewStoreError("sign-in race recovery", err)
	}
	if err := s.bindIdentity(ctx, account, ext); err != nil {
		return nil, false, err
	}
	return account, false, nil
}

// bindIdentity attaches the external identity pair to an account. A pair
// already bound to a different account is a hard conflict.
func (s *accountService) bindIdentity(ctx context.Context, account *models.Account, ext *ExternalIdentity) error {
	err := s.repo.LinkedIdentity().Create(ctx, s.newIdentity(account.ID, ext))
	if err == nil {
		s.logger.Info("linked new provider identity", "account_id", account.ID, "provider", ext.Provider)
		return nil
	}
	if !repositories.IsDuplicateKeyError(err) {
		return NewStoreError("bind identity", err)
	}

	existing, lookupErr := s.repo.LinkedIdentity().GetByProviderAccount(ctx, ext.Provider, ext.ProviderAccountID)
	if lookupErr != nil {
		return NewStoreError("bind identity", lookupErr)
	}
	if existing.AccountID != account.ID {
		return NewConflictError("linked_identity",
			fmt.Sprintf("identity %s/%s is bound to another account", ext.Provider, ext.ProviderAccountID))
	}
	// Concurrent bind of the same pair to the same account; nothing to do.
	return nil
}

func (s *accountService) newIdentity(accountID string, ext *ExternalIdentity) *models.LinkedIdentity {
	return &models.LinkedIdentity{
		ID:                uuid.New().String(),
		AccountID:         accountID,
		Provider:          ext.Provider,
		ProviderAccountID: ext.ProviderAccountID,
		AccessToken:       ext.AccessToken,
		RefreshToken:      ext.RefreshToken,
		IDToken:           ext.IDToken,
		TokenType:         ext.TokenType,
		Scope:             ext.Scope,
		ExpiresAt:         ext.ExpiresAt,
	}
}

// ===== REGISTRATION =====

func (s *accountService) CompleteRegistration(ctx context.Context, callerID, accountID string, req *CompleteRegistrationRequest) (*models.Account, error) {
	if callerID == "" {
		return nil, NewAuthenticationError("no session")
	}
	if callerID != accountID {
		return nil, NewAuthorizationError(callerID, accountID, "account", "complete_registration", "not the account owner")
	}

	if errs := s.validator.GetBusinessValidator().ValidateCompleteRegistration(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}

	status := models.StaffUnverified
	if req.IsStaff {
		status = models.StaffPending
	}

	fields := map[string]interface{}{
		"name":                      strings.TrimSpace(req.FirstName + " " + req.LastName),
		"phone":                     req.Phone,
		"institution":               req.Institution,
		"department":                req.Department,
		"bio":                       req.Bio,
		"registration_complete":     true,
		"staff_verification_status": status,
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Account().UpdateFields(ctx, accountID, fields); err != nil {
			return err
		}

		profile := &models.Profile{AccountID: accountID}
		if req.Website != nil {
			links, err := customLinksJSON(*req.Website)
			if err != nil {
				return err
			}
			profile.CustomLinks = links
		}
		return tx.Profile().Upsert(ctx, profile)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, NewStoreError("complete registration", err)
	}

	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &events.Event{
		Type:      events.EventRegistrationCompleted,
		AccountID: accountID,
		Payload:   map[string]interface{}{"staff_claim": req.IsStaff},
	})
	s.logger.Info("registration completed", "account_id", accountID, "staff_claim", req.IsStaff)

	return account, nil
}

// ===== VERIFICATION =====

func (s *accountService) DecideStaffVerification(ctx context.Context, callerID, targetID string, action VerificationAction) (*models.Account, error) {
	if callerID == "" {
		return nil, NewAuthenticationError("no session")
	}

	caller, err := s.repo.Account().GetByID(ctx, callerID)
	if err != nil {
		// Fail closed: an unresolvable caller is unauthorized, never
		// implicitly approved.
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthorizationError(callerID, targetID, "account", "verify_staff", "caller account not found")
		}
		return nil, NewStoreError("verify staff", err)
	}
	if caller.Role != models.RoleAdmin {
		return nil, NewAuthorizationError(callerID, targetID, "account", "verify_staff", "administrator role required")
	}

	if action != ActionApprove && action != ActionReject {
		return nil, validator.ValidationErrors{{
			Field:   "action",
			Message: "must be one of: approve reject",
			Value:   string(action),
			Rule:    "oneof",
		}}
	}

	if _, err := s.getAccount(ctx, targetID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"staff_verified_by_id":    callerID,
		"staff_verification_date": now,
	}
	if action == ActionApprove {
		fields["staff_verification_status"] = models.StaffVerified
		fields["role"] = models.RoleStaff
	} else {
		fields["staff_verification_status"] = models.StaffRejected
		fields["role"] = models.RoleUser
	}

	// Status and role land in one transactional update; no reader ever
	// observes one without the other.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Account().UpdateFields(ctx, targetID, fields)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, NewStoreError("verify staff", err)
	}

	account, err := s.getAccount(ctx, targetID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &events.Event{
		Type:      events.EventStaffVerificationDecided,
		AccountID: targetID,
		Payload: map[string]interface{}{
			"action":      string(action),
			"decided_by":  callerID,
			"new_status":  string(account.StaffVerificationStatus),
			"new_role":    string(account.Role),
			"decision_at": now,
		},
	})
	s.logger.Info("staff verification decided",
		"target_id", targetID, "action", string(action), "decided_by", callerID)

	return account, nil
}

// ===== DELETION =====

func (s *accountService) RequestDeletion(ctx context.Context, callerID, accountID string) (*models.Account, error) {
	if callerID == "" {
		return nil, NewAuthenticationError("no session")
	}
	if callerID != accountID {
		return nil, NewAuthorizationError(callerID, accountID, "account", "request_deletion", "not the account owner")
	}

	now := time.Now().UTC()
	err := s.repo.Account().UpdateFields(ctx, accountID, map[string]interface{}{
		"deletion_requested_at":    now,
		"deletion_requested_by_id": callerID,
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, NewStoreError("request deletion", err)
	}

	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &events.Event{
		Type:      events.EventDeletionRequested,
		AccountID: accountID,
	})
	s.logger.Info("deletion requested", "account_id", accountID)

	return account, nil
}

// ===== LANGUAGE =====

func (s *accountService) GetLanguage(ctx context.Context, accountID string) (models.Language, error) {
	// Anonymous visitors and accounts without an explicit selection
	// both resolve to the default at read time.
	if accountID == "" {
		return models.DefaultLanguage, nil
	}

	pref, err := s.repo.Language().Get(ctx, accountID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return models.DefaultLanguage, nil
		}
		return models.DefaultLanguage, NewStoreError("get language", err)
	}
	return pref.Language, nil
}

func (s *accountService) SetLanguage(ctx context.Context, callerID, accountID string, language models.Language) error {
	if callerID == "" {
		return NewAuthenticationError("no session")
	}
	if callerID != accountID {
		return NewAuthorizationError(callerID, accountID, "language_preference", "set", "not the account owner")
	}

	err := s.repo.Language().Upsert(ctx, &models.LanguagePreference{
		AccountID: accountID,
		Language:  language,
	})
	if err != nil {
		return NewStoreError("set language", err)
	}
	return nil
}

// ===== PROJECTIONS =====

func (s *accountService) SessionView(ctx context.Context, accountID string) (*models.PublicSessionView, error) {
	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	lang, err := s.GetLanguage(ctx, accountID)
	if err != nil {
		// Language resolution failures degrade to the default rather
		// than blocking session hydration.
		lang = models.DefaultLanguage
	}

	view := models.NewPublicSessionView(account, lang)
	return &view, nil
}

// ===== ADMIN QUEUE =====

func (s *accountService) ListPendingStaff(ctx context.Context, callerID string, filters AccountFilters) (*PendingStaffList, error) {
	if err := s.requireAdmin(ctx, callerID, "list_pending_staff"); err != nil {
		return nil, err
	}

	accounts, total, err := s.repo.Account().ListPendingStaff(ctx, filters)
	if err != nil {
		return nil, NewStoreError("list pending staff", err)
	}

	views := make([]*models.PendingStaffView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, models.NewPendingStaffView(account))
	}

	return &PendingStaffList{Accounts: views, Total: total}, nil
}

// ===== PUBLIC DIRECTORY =====

func (s *accountService) ListVerifiedStaff(ctx context.Context, filters AccountFilters) (*StaffDirectory, error) {
	accounts, total, err := s.repo.Account().ListVerifiedStaff(ctx, filters)
	if err != nil {
		return nil, NewStoreError("list verified staff", err)
	}

	members := make([]*models.VerifiedStaffView, 0, len(accounts))
	for _, account := range accounts {
		members = append(members, models.NewVerifiedStaffView(account))
	}

	return &StaffDirectory{Members: members, Total: total}, nil
}

func (s *accountService) GetVerifiedStaff(ctx context.Context, id string) (*models.VerifiedStaffView, error) {
	account, err := s.getAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	// Anything the directory does not list is indistinguishable from a
	// missing account.
	if account.StaffVerificationStatus != models.StaffVerified || account.DeletionRequestedAt != nil {
		return nil, ErrAccountNotFound
	}

	return models.NewVerifiedStaffView(account), nil
}

// ===== HELPERS =====

func (s *accountService) getAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repo.Account().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, NewStoreError("get account", err)
	}
	return account, nil
}

func (s *accountService) requireAdmin(ctx context.Context, callerID, action string) error {
	if callerID == "" {
		return NewAuthenticationError("no session")
	}
	caller, err := s.repo.Account().GetByID(ctx, callerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewAuthorizationError(callerID, "", "account", action, "caller account not found")
		}
		return NewStoreError(action, err)
	}
	if caller.Role != models.RoleAdmin {
		return NewAuthorizationError(callerID, "", "account", action, "administrator role required")
	}
	return nil
}

func (s *accountService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish lifecycle event",
			"event_type", event.Type, "account_id", event.AccountID, "error", err)
	}
}

func customLinksJSON(website string) (datatypes.JSON, error) {
	data := fmt.Sprintf(`{"website":%q}`, website)
	return datatypes.JSON([]byte(data)), nil
}
