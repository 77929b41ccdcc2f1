package validator

// CompleteRegistrationRequest is the registration-completion form body.
type CompleteRegistrationRequest struct {
	FirstName   string  `json:"first_name" validate:"required,max=50"`
	LastName    string  `json:"last_name" validate:"required,max=50"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Institution *string `json:"institution" validate:"omitempty,max=200"`
	Department  *string `json:"department" validate:"omitempty,max=200"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	Website     *string `json:"website" validate:"omitempty,url,max=500"`
	IsStaff     bool    `json:"is_staff"`
}

// VerifyStaffRequest is an administrator's verification decision.
type VerifyStaffRequest struct {
	UserID string `json:"userId" validate:"required"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// LanguageRequest selects the caller's preferred language.
type LanguageRequest struct {
	Language string `json:"language" validate:"required,language_code"`
}

// ContentUpsertRequest creates or updates a content entry.
type ContentUpsertRequest struct {
	Key         string  `json:"key" validate:"required,content_key,max=255"`
	Type        string  `json:"type" validate:"required,content_type"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// TranslationUpsertRequest writes one localized value for a content key.
type TranslationUpsertRequest struct {
	Key      string `json:"key" validate:"required,content_key,max=255"`
	Language string `json:"language" validate:"required,language_code"`
	Value    string `json:"value" validate:"required"`
}
