package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleStaff      UserRole = "staff"
	RoleResearcher UserRole = "researcher"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

// ParseUserRole converts an incoming string into a known role.
// Unknown values are rejected at the boundary instead of stored as-is.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleUser, RoleStaff, RoleResearcher, RoleInstructor, RoleAdmin:
		return UserRole(s), true
	}
	return "", false
}

type StaffVerificationStatus string

const (
	StaffUnverified StaffVerificationStatus = "unverified"
	StaffPending    StaffVerificationStatus = "pending"
	StaffVerified   StaffVerificationStatus = "verified"
	StaffRejected   StaffVerificationStatus = "rejected"
)

func ParseStaffVerificationStatus(s string) (StaffVerificationStatus, bool) {
	switch StaffVerificationStatus(s) {
	case StaffUnverified, StaffPending, StaffVerified, StaffRejected:
		return StaffVerificationStatus(s), true
	}
	return "", false
}

// AccountState is the lifecycle state derived from an account's persisted
// fields. It is never stored; see AccountStateOf.
type AccountState string

const (
	StateRegistering          AccountState = "registering"
	StateAwaitingVerification AccountState = "awaiting_verification"
	StateActive               AccountState = "active"
	StateRejected             AccountState = "rejected"
)

type Account struct {
	ID    string `json:"id" gorm:"primaryKey;size:36"`
	Email string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Name  string `json:"name" gorm:"size:100"`

	Role                    UserRole                `json:"role" gorm:"not null;size:20;default:user"`
	StaffVerificationStatus StaffVerificationStatus `json:"staff_verification_status" gorm:"not null;size:20;default:unverified"`
	RegistrationComplete    bool                    `json:"registration_complete" gorm:"not null;default:false"`

	// Profile info
	AvatarURL   *string `json:"avatar_url" gorm:"size:500"`
	Institution *string `json:"institution" gorm:"size:200"`
	Department  *string `json:"department" gorm:"size:200"`
	Phone       *string `json:"phone" gorm:"size:50"`
	Bio         *string `json:"bio" gorm:"size:2000"`

	// Verification audit trail. Both fields change together with the
	// status in a single transactional update.
	StaffVerifiedByID     *string    `json:"staff_verified_by_id" gorm:"size:36"`
	StaffVerificationDate *time.Time `json:"staff_verification_date"`

	// Soft deletion: the request is recorded, the row stays.
	DeletionRequestedAt   *time.Time `json:"deletion_requested_at"`
	DeletionRequestedByID *string    `json:"-" gorm:"size:36"`

	Identities []LinkedIdentity `json:"-" gorm:"foreignKey:AccountID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "users"
}

// AccountStateOf derives the lifecycle state from persisted fields.
// Deletion requests are an orthogonal flag, not a state.
func AccountStateOf(a *Account) AccountState {
	switch {
	case !a.RegistrationComplete:
		return StateRegistering
	case a.StaffVerificationStatus == StaffPending:
		return StateAwaitingVerification
	case a.StaffVerificationStatus == StaffRejected:
		return StateRejected
	default:
		return StateActive
	}
}

// LinkedIdentity binds one external OAuth account to a platform account.
// Token material is opaque pass-through storage.
type LinkedIdentity struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	AccountID string `json:"account_id" gorm:"not null;size:36;index"`

	Provider          string `json:"provider" gorm:"not null;size:50;uniqueIndex:idx_provider_account"`
	ProviderAccountID string `json:"provider_account_id" gorm:"not null;size:255;uniqueIndex:idx_provider_account"`

	AccessToken  *string `json:"-" gorm:"size:2000"`
	RefreshToken *string `json:"-" gorm:"size:2000"`
	IDToken      *string `json:"-" gorm:"size:4000"`
	TokenType    *string `json:"-" gorm:"size:50"`
	Scope        *string `json:"-" gorm:"size:500"`
	ExpiresAt    *int64  `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LinkedIdentity) TableName() string {
	return "linked_identities"
}

// Profile holds registration extras that don't belong on the user row.
// Upsert keyed by AccountID.
type Profile struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	AccountID   string         `json:"account_id" gorm:"uniqueIndex;not null;size:36"`
	CustomLinks datatypes.JSON `json:"custom_links"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

type LanguagePreference struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AccountID string    `json:"account_id" gorm:"uniqueIndex;not null;size:36"`
	Language  Language  `json:"language" gorm:"not null;size:5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LanguagePreference) TableName() string {
	return "language_preferences"
}
