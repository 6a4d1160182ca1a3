package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/internal/uploads"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	deleted []string
	err     error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return errs.NewAlreadyExistsError("email already registered")
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) Get(_ context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.NewNotFoundError("user not found")
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, uid)
	s.deleted = append(s.deleted, uid)
	return nil
}

type fakeTransactionStore struct {
	mu     sync.Mutex
	txs    map[string]models.Transaction
	writes int
}

func newFakeTransactionStore(txs ...models.Transaction) *fakeTransactionStore {
	s := &fakeTransactionStore{txs: map[string]models.Transaction{}}
	for _, tx := range txs {
		s.txs[tx.ID] = tx
	}
	return s
}

func (s *fakeTransactionStore) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID] = *tx
	return nil
}

func (s *fakeTransactionStore) Get(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	return &tx, nil
}

func (s *fakeTransactionStore) Update(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID] = *tx
	return nil
}

func (s *fakeTransactionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.txs, id)
	return nil
}

func (s *fakeTransactionStore) Query(_ context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error {
	s.mu.Lock()
	var out []models.Transaction
	for _, tx := range s.txs {
		switch {
		case tx.UserID != uid:
		case q.Type != nil && tx.Type != *q.Type:
		case q.Category != nil && tx.Category != *q.Category:
		case q.RecurringID != nil && tx.RecurringID != *q.RecurringID:
		case q.DateFrom != nil && tx.Date.Before(*q.DateFrom):
		case q.DateTo != nil && tx.Date.After(*q.DateTo):
		default:
			out = append(out, tx)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if q.Desc {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	for i := range out {
		if err := fn(&out[i]); err != nil {
			return err
		}
	}
	return nil
}

// fakeRecurringStore shares its transaction map with a fakeTransactionStore
// and implements CommitExpansion as a compare-and-swap on the cursor that
// only inserts instances not stored yet.
type fakeRecurringStore struct {
	mu        sync.Mutex
	schedules map[string]models.RecurringTransaction
	txs       *fakeTransactionStore
	commits   int
	conflicts int
	onList    func()
}

func newFakeRecurringStore(txs *fakeTransactionStore, schedules ...models.RecurringTransaction) *fakeRecurringStore {
	s := &fakeRecurringStore{schedules: map[string]models.RecurringTransaction{}, txs: txs}
	for _, rt := range schedules {
		s.schedules[rt.ID] = rt
	}
	return s
}

func (s *fakeRecurringStore) Create(_ context.Context, rt *models.RecurringTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[rt.ID] = *rt
	return nil
}

func (s *fakeRecurringStore) Get(_ context.Context, id string) (*models.RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.schedules[id]
	if !ok {
		return nil, errs.NewNotFoundError("recurring transaction not found")
	}
	return &rt, nil
}

func (s *fakeRecurringStore) Update(_ context.Context, rt *models.RecurringTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[rt.ID] = *rt
	return nil
}

func (s *fakeRecurringStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schedules, id)
	return nil
}

func (s *fakeRecurringStore) ListByUser(_ context.Context, uid string) ([]*models.RecurringTransaction, error) {
	s.mu.Lock()
	var out []*models.RecurringTransaction
	for _, rt := range s.schedules {
		if rt.UserID == uid {
			cp := rt
			out = append(out, &cp)
		}
	}
	s.mu.Unlock()
	if s.onList != nil {
		s.onList()
	}
	return out, nil
}

func (s *fakeRecurringStore) ListDue(_ context.Context, cutoff time.Time) ([]*models.RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.RecurringTransaction
	for _, rt := range s.schedules {
		if !rt.NextOccurrence.After(cutoff) {
			cp := rt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeRecurringStore) CommitExpansion(_ context.Context, prev time.Time, schedule *models.RecurringTransaction, drafts []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.schedules[schedule.ID]
	if !ok {
		return errs.NewNotFoundError("recurring transaction not found")
	}
	if !current.NextOccurrence.Equal(prev) {
		s.conflicts++
		return errs.NewConflictError("recurring transaction was expanded concurrently")
	}

	s.txs.mu.Lock()
	for _, d := range drafts {
		if _, ok := s.txs.txs[d.ID]; ok {
			continue
		}
		s.txs.txs[d.ID] = d
		s.txs.writes++
	}
	s.txs.mu.Unlock()

	current.NextOccurrence = schedule.NextOccurrence
	s.schedules[schedule.ID] = current
	s.commits++
	return nil
}

type fakeBudgetStore struct {
	mu      sync.Mutex
	budgets map[string]models.Budget
}

func newFakeBudgetStore(budgets ...models.Budget) *fakeBudgetStore {
	s := &fakeBudgetStore{budgets: map[string]models.Budget{}}
	for _, b := range budgets {
		s.budgets[b.ID] = b
	}
	return s
}

func (s *fakeBudgetStore) Upsert(_ context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = *b
	return nil
}

func (s *fakeBudgetStore) Get(_ context.Context, id string) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return nil, errs.NewNotFoundError("budget not found")
	}
	return &b, nil
}

func (s *fakeBudgetStore) ListByUser(_ context.Context, uid string) ([]*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Budget
	for _, b := range s.budgets {
		if b.UserID == uid {
			cp := b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *fakeBudgetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.budgets, id)
	return nil
}

type stubTokens struct{}

func (stubTokens) Generate(user *models.User) (string, error) { return "token-" + user.ID, nil }

type stubPhotoStore struct {
	saved   map[string]uploads.Photo
	deleted []string
}

func (s *stubPhotoStore) Save(_ context.Context, key string, photo uploads.Photo) (string, error) {
	if s.saved == nil {
		s.saved = map[string]uploads.Photo{}
	}
	s.saved[key] = photo
	return "/uploads/" + key, nil
}

func (s *stubPhotoStore) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}
