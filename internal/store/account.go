package store

import (
	"sync"
	"time"

	"github.com/efreitasn/papertrade/internal/domain"
)

// Entry is the live account together with the lock that serialises
// every operation on it.
type Entry struct {
	Account  *domain.Account
	OpenedAt time.Time
	Mu       sync.Mutex // held for the full duration of each ledger call
}

// AccountStore is a thread-safe holder for the single account the
// process serves. Opening a new account replaces the old one wholesale.
type AccountStore struct {
	mu      sync.RWMutex
	current *Entry
	now     func() time.Time
}

// NewAccountStore creates a store serving account.
func NewAccountStore(account *domain.Account) *AccountStore {
	s := &AccountStore{now: time.Now}
	s.current = s.newEntry(account)
	return s
}

func (s *AccountStore) newEntry(account *domain.Account) *Entry {
	return &Entry{
		Account:  account,
		OpenedAt: s.now().UTC(),
	}
}

// Current returns the entry for the account being served.
func (s *AccountStore) Current() *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Replace installs account as the served account and returns its entry.
// Callers still holding the previous entry keep operating on the old,
// now detached, account.
func (s *AccountStore) Replace(account *domain.Account) *Entry {
	e := s.newEntry(account)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = e
	return e
}
