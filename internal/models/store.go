package models

import (
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// Row is one versioned entry of the ledger store. Version starts at 1 on
// insert and increments on every successful write; version 0 never exists, so
// CompareAndSet with expected 0 means insert-only.
type Row struct {
	Version uint64          `json:"version"`
	Value   json.RawMessage `json:"value"`
}

// Store is the in-process ledger store: a small set of versioned rows with
// atomic get/put/compare-and-set. Every shared mutable resource of the
// system (cycle rows, voter ledgers, token accounts, rater ledgers, teams)
// lives here, and all cross-request mutation goes through CompareAndSet,
// never through read-then-write spanning two calls.
type Store struct {
	mu   sync.RWMutex
	rows map[string]Row
}

func NewStore() *Store {
	return &Store{rows: make(map[string]Row)}
}

func (s *Store) Get(key string) (Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[key]
	return row, ok
}

// Put writes unconditionally and returns the new version.
func (s *Store) Put(key string, value json.RawMessage) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.rows[key]
	row.Version++
	row.Value = value
	s.rows[key] = row
	return row.Version
}

// CompareAndSet writes value only if the row's current version equals
// expected (0 for "must not exist yet"). It returns the new version and
// whether the write happened.
func (s *Store) CompareAndSet(key string, expected uint64, value json.RawMessage) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[key]
	current := uint64(0)
	if ok {
		current = row.Version
	}
	if current != expected {
		return current, false
	}
	row.Version = current + 1
	row.Value = value
	s.rows[key] = row
	return row.Version, true
}

// Scan returns a copy of every row whose key starts with prefix.
func (s *Store) Scan(prefix string) map[string]Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Row)
	for k, row := range s.rows {
		if strings.HasPrefix(k, prefix) {
			out[k] = row
		}
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Rows returns a copy of the full row set for persistence.
func (s *Store) Rows() map[string]Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Row, len(s.rows))
	for k, row := range s.rows {
		out[k] = row
	}
	return out
}

// Restore replaces the row set wholesale; used once at startup.
func (s *Store) Restore(rows map[string]Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make(map[string]Row, len(rows))
	for k, row := range rows {
		s.rows[k] = row
	}
}

// Key builders. The store holds a handful of well-known prefixes; services
// never concatenate keys by hand.

const (
	prefixCycle  = "cycle:"
	prefixTeam   = "team:"
	prefixTokens = "tokens:"
	prefixVotes  = "votes:"
	prefixRating = "rating:"
)

func CycleKey(kind RoundKind) string    { return prefixCycle + string(kind) }
func TeamKey(teamID string) string      { return prefixTeam + teamID }
func TokenKey(teamID string) string     { return prefixTokens + teamID }
func VotesKey(fromTeamID string) string { return prefixVotes + fromTeamID }

func RatingKey(kind RatingKind, raterID string) string {
	return prefixRating + string(kind) + ":" + raterID
}

func TeamPrefix() string  { return prefixTeam }
func TokenPrefix() string { return prefixTokens }
func VotesPrefix() string { return prefixVotes }

func RatingPrefix(kind RatingKind) string { return prefixRating + string(kind) + ":" }
