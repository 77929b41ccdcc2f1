package validator

import "testing"

func TestValidateCompleteRegistration(t *testing.T) {
	bv := NewBusinessValidator()
	institution := "SINC Institute"

	tests := []struct {
		name     string
		req      *CompleteRegistrationRequest
		wantRule string
	}{
		{
			name: "valid regular user",
			req:  &CompleteRegistrationRequest{FirstName: "Ada", LastName: "Lovelace"},
		},
		{
			name: "valid staff claim",
			req: &CompleteRegistrationRequest{
				FirstName: "Ada", LastName: "Lovelace",
				Institution: &institution, IsStaff: true,
			},
		},
		{
			name:     "missing first name",
			req:      &CompleteRegistrationRequest{LastName: "Lovelace"},
			wantRule: "required",
		},
		{
			name: "staff claim without institution",
			req: &CompleteRegistrationRequest{
				FirstName: "Ada", LastName: "Lovelace", IsStaff: true,
			},
			wantRule: "staff_institution",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateCompleteRegistration(tt.req)
			if tt.wantRule == "" {
				if len(errs) != 0 {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			if !hasRule(errs, tt.wantRule) {
				t.Errorf("errors %v missing rule %q", errs, tt.wantRule)
			}
		})
	}
}

func TestValidateVerifyStaff(t *testing.T) {
	bv := NewBusinessValidator()

	if errs := bv.ValidateVerifyStaff(&VerifyStaffRequest{UserID: "acc-1", Action: "approve"}); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if errs := bv.ValidateVerifyStaff(&VerifyStaffRequest{UserID: "acc-1", Action: "defer"}); !hasRule(errs, "oneof") {
		t.Errorf("expected oneof failure, got %v", errs)
	}
	if errs := bv.ValidateVerifyStaff(&VerifyStaffRequest{Action: "approve"}); !hasRule(errs, "required") {
		t.Errorf("expected required failure, got %v", errs)
	}
}

func TestLanguageCodeIsClosedSet(t *testing.T) {
	bv := NewBusinessValidator()

	for _, code := range []string{"EN", "ES", "FR", "en"} {
		if errs := bv.ValidateLanguage(&LanguageRequest{Language: code}); len(errs) != 0 {
			t.Errorf("%s: unexpected errors %v", code, errs)
		}
	}
	for _, code := range []string{"DE", "english", ""} {
		if errs := bv.ValidateLanguage(&LanguageRequest{Language: code}); len(errs) == 0 {
			t.Errorf("%s: expected rejection", code)
		}
	}
}

func TestContentKeyShape(t *testing.T) {
	bv := NewBusinessValidator()

	valid := []string{"home.description", "nav.items.about", "footer.copyright_2025"}
	for _, key := range valid {
		errs := bv.ValidateContentUpsert(&ContentUpsertRequest{Key: key, Type: "page"})
		if len(errs) != 0 {
			t.Errorf("%s: unexpected errors %v", key, errs)
		}
	}

	invalid := []string{"home", "Home.Description", "home..description", ".description", "home.description."}
	for _, key := range invalid {
		errs := bv.ValidateContentUpsert(&ContentUpsertRequest{Key: key, Type: "page"})
		if !hasRule(errs, "content_key") {
			t.Errorf("%s: expected content_key rejection, got %v", key, errs)
		}
	}

	if errs := bv.ValidateContentUpsert(&ContentUpsertRequest{Key: "home.description", Type: "banner"}); !hasRule(errs, "content_type") {
		t.Errorf("expected content_type rejection, got %v", errs)
	}
}

func hasRule(errs ValidationErrors, rule string) bool {
	for _, e := range errs {
		if e.Rule == rule {
			return true
		}
	}
	return false
}
