// Package memory is an in-process repository.Store used by tests. Mutations
// made inside InTx are discarded when the callback fails, mirroring a
// database rollback.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository"
	"github.com/google/uuid"
)

// Store keeps every collection in maps guarded by one mutex
type Store struct {
	mu sync.Mutex

	creds     map[string]models.Credentials // by id
	profiles  map[string]models.UserProfile
	leads     []models.Lead
	downloads map[string]map[string]time.Time // user -> lead -> at
	ledger    []models.CreditTransaction

	// Fail, when set, is consulted before every operation; a non-nil
	// return aborts that operation
	Fail func(op string) error

	// Calls counts operations by name
	Calls map[string]int
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		creds:     make(map[string]models.Credentials),
		profiles:  make(map[string]models.UserProfile),
		downloads: make(map[string]map[string]time.Time),
		Calls:     make(map[string]int),
	}
}

func (s *Store) enter(op string) error {
	s.Calls[op]++
	if s.Fail != nil {
		return s.Fail(op)
	}
	return nil
}

// AddProfile seeds a profile with a matching auth identity
func (s *Store) AddProfile(p models.UserProfile, passwordHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.creds[p.ID] = models.Credentials{ID: p.ID, Email: p.Email, PasswordHash: passwordHash}
	s.profiles[p.ID] = p
}

// AddLeads seeds leads in the given order
func (s *Store) AddLeads(leads ...models.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, leads...)
}

// MarkDownloaded seeds download history
func (s *Store) MarkDownloaded(userID string, leadIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range leadIDs {
		s.addDownload(userID, id, time.Now())
	}
}

func (s *Store) addDownload(userID, leadID string, at time.Time) {
	if s.downloads[userID] == nil {
		s.downloads[userID] = make(map[string]time.Time)
	}
	s.downloads[userID][leadID] = at
}

// Ledger returns a copy of every credit transaction
func (s *Store) Ledger() []models.CreditTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CreditTransaction(nil), s.ledger...)
}

// Profile returns the stored profile for id
func (s *Store) Profile(id string) models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[id]
}

// Leads returns a copy of every stored lead
func (s *Store) Leads() []models.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Lead(nil), s.leads...)
}

func (s *Store) CreateUser(_ context.Context, creds *models.Credentials, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateUser"); err != nil {
		return err
	}
	for _, c := range s.creds {
		if strings.EqualFold(c.Email, creds.Email) {
			return repository.ErrDuplicate
		}
	}
	profile.CreatedAt = time.Now()
	s.creds[creds.ID] = *creds
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *Store) FindCredentials(_ context.Context, email string) (*models.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindCredentials"); err != nil {
		return nil, err
	}
	for _, c := range s.creds {
		if strings.EqualFold(c.Email, email) {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindProfileByID(_ context.Context, id string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindProfileByID"); err != nil {
		return nil, err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProfiles(_ context.Context) ([]models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListProfiles"); err != nil {
		return nil, err
	}
	out := make([]models.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateProfileStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateProfileStatus"); err != nil {
		return err
	}
	p, ok := s.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	s.profiles[id] = p
	return nil
}

// ListLeads returns matching leads in seeded order, which tests treat as
// newest first
func (s *Store) ListLeads(_ context.Context, status string) ([]models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListLeads"); err != nil {
		return nil, err
	}
	out := []models.Lead{}
	for _, l := range s.leads {
		if status == "" || l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) FindLeadsByLeadIDs(_ context.Context, leadIDs []string) ([]models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindLeadsByLeadIDs"); err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(leadIDs))
	for _, id := range leadIDs {
		want[id] = true
	}
	out := []models.Lead{}
	for _, l := range s.leads {
		if want[l.LeadID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) InsertLeads(_ context.Context, leads []models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertLeads"); err != nil {
		return err
	}
	existing := make(map[string]bool, len(s.leads))
	for _, l := range s.leads {
		existing[l.LeadID] = true
	}
	for _, l := range leads {
		if existing[l.LeadID] {
			return repository.ErrDuplicate
		}
		existing[l.LeadID] = true
	}
	now := time.Now()
	fresh := make([]models.Lead, len(leads))
	for i, l := range leads {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.CreatedDate = now
		fresh[i] = l
	}
	s.leads = append(fresh, s.leads...)
	return nil
}

func (s *Store) DownloadedLeadIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DownloadedLeadIDs"); err != nil {
		return nil, err
	}
	out := []string{}
	for id := range s.downloads[userID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) CreditDrift(_ context.Context) ([]models.CreditDrift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreditDrift"); err != nil {
		return nil, err
	}
	sums := make(map[string]int)
	for _, t := range s.ledger {
		sums[t.UserID] += t.Amount
	}
	out := []models.CreditDrift{}
	for _, p := range s.profiles {
		expected := p.InitialCredits + sums[p.ID]
		if p.Credits != expected {
			out = append(out, models.CreditDrift{UserID: p.ID, Email: p.Email, Credits: p.Credits, Expected: expected})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// SetCredits overwrites a balance without a ledger entry, for drift tests
func (s *Store) SetCredits(id string, credits int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profiles[id]
	p.Credits = credits
	s.profiles[id] = p
}

func (s *Store) InTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InTx"); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(&tx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	profiles  map[string]models.UserProfile
	downloads map[string]map[string]time.Time
	ledger    []models.CreditTransaction
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		profiles:  make(map[string]models.UserProfile, len(s.profiles)),
		downloads: make(map[string]map[string]time.Time, len(s.downloads)),
		ledger:    append([]models.CreditTransaction(nil), s.ledger...),
	}
	for k, v := range s.profiles {
		snap.profiles[k] = v
	}
	for u, m := range s.downloads {
		cp := make(map[string]time.Time, len(m))
		for k, v := range m {
			cp[k] = v
		}
		snap.downloads[u] = cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.profiles = snap.profiles
	s.downloads = snap.downloads
	s.ledger = snap.ledger
}

// tx runs while the owning Store's mutex is held by InTx
type tx struct {
	s *Store
}

func (t *tx) LockProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	if err := t.s.enter("LockProfile"); err != nil {
		return nil, err
	}
	p, ok := t.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (t *tx) DownloadedAmong(_ context.Context, userID string, leadIDs []string) (map[string]bool, error) {
	if err := t.s.enter("DownloadedAmong"); err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, id := range leadIDs {
		if _, ok := t.s.downloads[userID][id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (t *tx) InsertDownloads(_ context.Context, records []models.DownloadRecord) error {
	if err := t.s.enter("InsertDownloads"); err != nil {
		return err
	}
	for _, r := range records {
		t.s.addDownload(r.UserID, r.LeadID, r.DownloadedAt)
	}
	return nil
}

func (t *tx) AdjustCredits(_ context.Context, userID string, delta int) (int, error) {
	if err := t.s.enter("AdjustCredits"); err != nil {
		return 0, err
	}
	p, ok := t.s.profiles[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	p.Credits += delta
	t.s.profiles[userID] = p
	return p.Credits, nil
}

func (t *tx) InsertCreditTransaction(_ context.Context, ct *models.CreditTransaction) error {
	if err := t.s.enter("InsertCreditTransaction"); err != nil {
		return err
	}
	ct.ID = int64(len(t.s.ledger) + 1)
	ct.CreatedAt = time.Now()
	t.s.ledger = append(t.s.ledger, *ct)
	return nil
}

// TotalCalls is the number of operations attempted so far
func (s *Store) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		n += c
	}
	return n
}
