package session

import (
	"sync"

	"github.com/potatotracker/internal/domain/settings"
	"github.com/potatotracker/internal/domain/transaction"
)

// step enumerates the dialog states a chat can be in while a session exists.
// A chat with no session object is idle.
type step int

const (
	stepIncomeAmount step = iota
	stepIncomeDescription
	stepExpenseAmount
	stepExpenseDescription
	stepRemoveSelect
	stepSettingsMenu
	stepSettingsCurrency
	stepSettingsSalaryDay
)

// session holds the transient state of one chat's multi-step dialog:
// the current step plus the drafts being collected.
type session struct {
	step     step
	draft    transaction.Transaction
	settings settings.Settings
}

// sessionStore is a concurrency-safe map of active dialogs keyed by chat ID
type sessionStore struct {
	mu sync.Mutex
	m  map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[string]*session)}
}

func (s *sessionStore) get(chatID string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[chatID]
	return sess, ok
}

func (s *sessionStore) set(chatID string, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = sess
}

func (s *sessionStore) delete(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, chatID)
}

// selectionCache keeps the last transaction list shown to each chat, used to
// resolve a later 1-based numeric reply against a displayed index. Every
// listing command overwrites the entry; a stale list resolving an index is
// accepted best-effort behavior.
type selectionCache struct {
	mu sync.Mutex
	m  map[string][]transaction.Transaction
}

func newSelectionCache() *selectionCache {
	return &selectionCache{m: make(map[string][]transaction.Transaction)}
}

func (c *selectionCache) set(chatID string, list []transaction.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[chatID] = list
}

// resolve maps a 1-based displayed index to the cached transaction. Indexing
// is bounded by the cached list length at query time; with no cached list any
// index is out of range.
func (c *selectionCache) resolve(chatID string, index int) (*transaction.Transaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.m[chatID]
	if index < 1 || index > len(list) {
		return nil, false
	}
	tx := list[index-1]
	return &tx, true
}
