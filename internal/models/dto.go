package models

import "time"

// ===== SESSION PROJECTION =====

// PublicSessionView is the outward-facing session shape. It is a pure
// projection of an Account plus the resolved language preference and is
// independent of the identity provider's own object shape.
type PublicSessionView struct {
	ID                   string                  `json:"id"`
	Email                string                  `json:"email"`
	Name                 string                  `json:"name"`
	Image                *string                 `json:"image,omitempty"`
	Role                 UserRole                `json:"role"`
	StaffStatus          StaffVerificationStatus `json:"staff_status"`
	RegistrationComplete bool                    `json:"registration_complete"`
	LanguagePreference   Language                `json:"language_preference"`
}

// NewPublicSessionView projects an account into its session view.
func NewPublicSessionView(a *Account, lang Language) PublicSessionView {
	return PublicSessionView{
		ID:                   a.ID,
		Email:                a.Email,
		Name:                 a.Name,
		Image:                a.AvatarURL,
		Role:                 a.Role,
		StaffStatus:          a.StaffVerificationStatus,
		RegistrationComplete: a.RegistrationComplete,
		LanguagePreference:   lang,
	}
}

// ===== PUBLIC DIRECTORY =====

// VerifiedStaffView is one entry of the public staff directory. Only
// verified members are projected, and only directory-safe fields leave
// the service.
type VerifiedStaffView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       *string  `json:"image,omitempty"`
	Role        UserRole `json:"role"`
	Institution *string  `json:"institution"`
	Department  *string  `json:"department"`
	Bio         *string  `json:"bio"`
}

// NewVerifiedStaffView projects a verified account into its directory
// entry.
func NewVerifiedStaffView(a *Account) *VerifiedStaffView {
	return &VerifiedStaffView{
		ID:          a.ID,
		Name:        a.Name,
		Image:       a.AvatarURL,
		Role:        a.Role,
		Institution: a.Institution,
		Department:  a.Department,
		Bio:         a.Bio,
	}
}

// ===== ADMIN VIEWS =====

// PendingStaffView is one row of the admin verification queue.
type PendingStaffView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Institution *string   `json:"institution"`
	Department  *string   `json:"department"`
	Phone       *string   `json:"phone"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewPendingStaffView projects an account awaiting verification.
func NewPendingStaffView(a *Account) *PendingStaffView {
	return &PendingStaffView{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Institution: a.Institution,
		Department:  a.Department,
		Phone:       a.Phone,
		RequestedAt: a.UpdatedAt,
	}
}
