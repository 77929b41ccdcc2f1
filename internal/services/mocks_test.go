package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/repositories"
)

// mockRepository is an in-memory repositories.Repository with unique
// constraints mirroring the real schema (email, provider+account pair,
// one profile and one language row per account, content key, one
// translation per content+language).
type mockRepository struct {
	mu sync.Mutex

	accounts   map[string]*models.Account
	identities map[string]*models.LinkedIdentity
	profiles   map[string]*models.Profile
	languages  map[string]*models.LanguagePreference
	entries    map[string]*models.ContentEntry
	nextID     uint

	// Miss counters simulate lookups that lose a race: the first N calls
	// report not-found even when the row exists.
	emailMisses    int
	identityMisses int

	// Error injection, applied to every call of the matching method.
	accountErr error
	contentErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts:   make(map[string]*models.Account),
		identities: make(map[string]*models.LinkedIdentity),
		profiles:   make(map[string]*models.Profile),
		languages:  make(map[string]*models.LanguagePreference),
		entries:    make(map[string]*models.ContentEntry),
	}
}

func (r *mockRepository) Account() repositories.AccountRepository       { return &mockAccountRepo{r} }
func (r *mockRepository) LinkedIdentity() repositories.LinkedIdentityRepository {
	return &mockIdentityRepo{r}
}
func (r *mockRepository) Profile() repositories.ProfileRepository   { return &mockProfileRepo{r} }
func (r *mockRepository) Language() repositories.LanguageRepository { return &mockLanguageRepo{r} }
func (r *mockRepository) Content() repositories.ContentRepository   { return &mockContentRepo{r} }

// WithTransaction restores the pre-transaction state when fn fails, the
// same way a rolled-back database transaction would.
func (r *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	snap := r.snapshot()
	if err := fn(r); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

type mockSnapshot struct {
	accounts   map[string]*models.Account
	identities map[string]*models.LinkedIdentity
	profiles   map[string]*models.Profile
	languages  map[string]*models.LanguagePreference
	entries    map[string]*models.ContentEntry
	nextID     uint
}

func (r *mockRepository) snapshot() *mockSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := &mockSnapshot{
		accounts:   make(map[string]*models.Account, len(r.accounts)),
		identities: make(map[string]*models.LinkedIdentity, len(r.identities)),
		profiles:   make(map[string]*models.Profile, len(r.profiles)),
		languages:  make(map[string]*models.LanguagePreference, len(r.languages)),
		entries:    make(map[string]*models.ContentEntry, len(r.entries)),
		nextID:     r.nextID,
	}
	for k, v := range r.accounts {
		snap.accounts[k] = copyAccount(v)
	}
	for k, v := range r.identities {
		c := *v
		snap.identities[k] = &c
	}
	for k, v := range r.profiles {
		c := *v
		snap.profiles[k] = &c
	}
	for k, v := range r.languages {
		c := *v
		snap.languages[k] = &c
	}
	for k, v := range r.entries {
		snap.entries[k] = copyEntry(v)
	}
	return snap
}

func (r *mockRepository) restore(snap *mockSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = snap.accounts
	r.identities = snap.identities
	r.profiles = snap.profiles
	r.languages = snap.languages
	r.entries = snap.entries
	r.nextID = snap.nextID
}

func (r *mockRepository) Ping(ctx context.Context) error { return nil }
func (r *mockRepository) Close() error                   { return nil }

func (r *mockRepository) seedAccount(a *models.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	r.accounts[a.ID] = a
}

func (r *mockRepository) seedIdentity(id *models.LinkedIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities[id.Provider+"/"+id.ProviderAccountID] = id
}

func copyAccount(a *models.Account) *models.Account {
	c := *a
	return &c
}

func copyEntry(e *models.ContentEntry) *models.ContentEntry {
	c := *e
	c.Translations = append([]models.Translation(nil), e.Translations...)
	return &c
}

// ===== accounts =====

type mockAccountRepo struct{ r *mockRepository }

func (m *mockAccountRepo) Create(ctx context.Context, account *models.Account) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if m.r.accountErr != nil {
		return m.r.accountErr
	}
	if _, ok := m.r.accounts[account.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	for _, existing := range m.r.accounts {
		if existing.Email == account.Email {
			return repositories.ErrDuplicateKey
		}
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	m.r.accounts[account.ID] = copyAccount(account)
	return nil
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if m.r.accountErr != nil {
		return nil, m.r.accountErr
	}
	account, ok := m.r.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyAccount(account), nil
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if m.r.emailMisses > 0 {
		m.r.emailMisses--
		return nil, repositories.ErrNotFound
	}
	for _, account := range m.r.accounts {
		if account.Email == email {
			return copyAccount(account), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockAccountRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if m.r.accountErr != nil {
		return m.r.accountErr
	}
	account, ok := m.r.accounts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for name, value := range fields {
		applyAccountField(account, name, value)
	}
	account.UpdatedAt = time.Now().UTC()
	return nil
}

func applyAccountField(a *models.Account, name string, value interface{}) {
	switch name {
	case "name":
		a.Name = value.(string)
	case "phone":
		a.Phone = toStringPtr(value)
	case "institution":
		a.Institution = toStringPtr(value)
	case "department":
		a.Department = toStringPtr(value)
	case "bio":
		a.Bio = toStringPtr(value)
	case "registration_complete":
		a.RegistrationComplete = value.(bool)
	case "role":
		a.Role = value.(models.UserRole)
	case "staff_verification_status":
		a.StaffVerificationStatus = value.(models.StaffVerificationStatus)
	case "staff_verified_by_id":
		a.StaffVerifiedByID = toStringPtr(value)
	case "staff_verification_date":
		t := value.(time.Time)
		a.StaffVerificationDate = &t
	case "deletion_requested_at":
		t := value.(time.Time)
		a.DeletionRequestedAt = &t
	case "deletion_requested_by_id":
		a.DeletionRequestedByID = toStringPtr(value)
	}
}

func toStringPtr(value interface{}) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return &v
	case *string:
		return v
	}
	return nil
}

func (m *mockAccountRepo) ListPendingStaff(ctx context.Context, filters repositories.AccountFilters) ([]*models.Account, int64, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if m.r.accountErr != nil {
		return nil, 0, m.r.accountErr
	}

	var pending []*models.Account
	for _, account := range m.r.accounts {
		if account.StaffVerificationStatus != models.StaffPending {
			continue
		}
		if filters.Query != "" {
			q := strings.ToLower(filters.Query)
			if !strings.Contains(strings.ToLower(account.Name), q) &&
				!strings.Contains(strings.ToLower(account.Email), q) {
				continue
			}
		}
		pending = append(pending, copyAccount(account))
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].UpdatedAt.Before(pending[j].UpdatedAt)
	})

	total := int64(len(pending))
	if filters.Offset > 0 {
		if filters.Offset >= len(pending) {
			pending = nil
		} else {
			pending = pending[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(pending) > filters.Limit {
		pending = pending[:filters.Limit]
	}
	return pending, total, nil
}

func (m *mockAccountRepo) ListVerifiedStaff(ctx context.Context, filters repositories.AccountFilters) ([]*models.Account, int64, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if m.r.accountErr != nil {
		return nil, 0, m.r.accountErr
	}

	var verified []*models.Account
	for _, account := range m.r.accounts {
		if account.StaffVerificationStatus != models.StaffVerified || account.DeletionRequestedAt != nil {
			continue
		}
		if filters.Query != "" {
			q := strings.ToLower(filters.Query)
			if !strings.Contains(strings.ToLower(account.Name), q) &&
				!strings.Contains(strings.ToLower(account.Email), q) {
				continue
			}
		}
		verified = append(verified, copyAccount(account))
	}
	sort.Slice(verified, func(i, j int) bool {
		return verified[i].Name < verified[j].Name
	})

	total := int64(len(verified))
	if filters.Offset > 0 {
		if filters.Offset >= len(verified) {
			verified = nil
		} else {
			verified = verified[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(verified) > filters.Limit {
		verified = verified[:filters.Limit]
	}
	return verified, total, nil
}

// ===== linked identities =====

type mockIdentityRepo struct{ r *mockRepository }

func (m *mockIdentityRepo) Create(ctx context.Context, identity *models.LinkedIdentity) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	key := identity.Provider + "/" + identity.ProviderAccountID
	if _, ok := m.r.identities[key]; ok {
		return repositories.ErrDuplicateKey
	}
	now := time.Now().UTC()
	identity.CreatedAt = now
	identity.UpdatedAt = now
	m.r.identities[key] = identity
	return nil
}

func (m *mockIdentityRepo) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*models.LinkedIdentity, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if m.r.identityMisses > 0 {
		m.r.identityMisses--
		return nil, repositories.ErrNotFound
	}
	identity, ok := m.r.identities[provider+"/"+providerAccountID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return identity, nil
}

// ===== profiles =====

type mockProfileRepo struct{ r *mockRepository }

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if existing, ok := m.r.profiles[profile.AccountID]; ok {
		existing.CustomLinks = profile.CustomLinks
		existing.UpdatedAt = time.Now().UTC()
		return nil
	}
	m.r.nextID++
	profile.ID = m.r.nextID
	profile.CreatedAt = time.Now().UTC()
	profile.UpdatedAt = profile.CreatedAt
	m.r.profiles[profile.AccountID] = profile
	return nil
}

func (m *mockProfileRepo) GetByAccount(ctx context.Context, accountID string) (*models.Profile, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	profile, ok := m.r.profiles[accountID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return profile, nil
}

// ===== language preferences =====

type mockLanguageRepo struct{ r *mockRepository }

func (m *mockLanguageRepo) Get(ctx context.Context, accountID string) (*models.LanguagePreference, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	pref, ok := m.r.languages[accountID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return pref, nil
}

func (m *mockLanguageRepo) Upsert(ctx context.Context, pref *models.LanguagePreference) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if existing, ok := m.r.languages[pref.AccountID]; ok {
		existing.Language = pref.Language
		existing.UpdatedAt = time.Now().UTC()
		return nil
	}
	m.r.nextID++
	pref.ID = m.r.nextID
	pref.CreatedAt = time.Now().UTC()
	pref.UpdatedAt = pref.CreatedAt
	m.r.languages[pref.AccountID] = pref
	return nil
}

// ===== content =====

type mockContentRepo struct{ r *mockRepository }

func (m *mockContentRepo) GetByKey(ctx context.Context, key string) (*models.ContentEntry, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if m.r.contentErr != nil {
		return nil, m.r.contentErr
	}
	entry, ok := m.r.entries[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return entry, nil
}

func (m *mockContentRepo) List(ctx context.Context) ([]*models.ContentEntry, error) {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	out := make([]*models.ContentEntry, 0, len(m.r.entries))
	for _, entry := range m.r.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *mockContentRepo) UpsertEntry(ctx context.Context, entry *models.ContentEntry) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if existing, ok := m.r.entries[entry.Key]; ok {
		existing.Type = entry.Type
		existing.Description = entry.Description
		existing.UpdatedAt = time.Now().UTC()
		return nil
	}
	m.r.nextID++
	entry.ID = m.r.nextID
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt
	m.r.entries[entry.Key] = entry
	return nil
}

func (m *mockContentRepo) UpsertTranslation(ctx context.Context, key string, translation *models.Translation) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	entry, ok := m.r.entries[key]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range entry.Translations {
		if entry.Translations[i].Language == translation.Language {
			entry.Translations[i].Value = translation.Value
			entry.Translations[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	translation.ContentID = entry.ID
	entry.Translations = append(entry.Translations, *translation)
	return nil
}
