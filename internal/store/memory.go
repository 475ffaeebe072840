package store

import (
	"context"
	"maps"
	"sync"

	"github.com/polymoney/polymarket-data/internal/model"
)

// MemoryStore implements Store in memory with the same conflict semantics
// as the Postgres backend. Used by tests; scopes roll back on error by
// restoring a snapshot.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64

	users   map[string]model.User              // by external user id
	markets map[string]model.Market            // by external market id
	closed  map[closedKey]model.ClosedPosition // by dedup key
	active  map[activeKey]model.ActivePosition // by (user_pk, asset)
}

type closedKey struct {
	userPK   int64
	marketPK int64
	side     string
	txHash   string
}

type activeKey struct {
	userPK int64
	asset  string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]model.User),
		markets: make(map[string]model.Market),
		closed:  make(map[closedKey]model.ClosedPosition),
		active:  make(map[activeKey]model.ActivePosition),
	}
}

// WithScope serializes scopes under one lock and restores a snapshot when
// fn fails, so a failed scope leaves no partial writes behind.
func (s *MemoryStore) WithScope(ctx context.Context, fn func(ctx context.Context, sc Scope) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	if err := fn(ctx, &memScope{store: s}); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type memSnapshot struct {
	nextID  int64
	users   map[string]model.User
	markets map[string]model.Market
	closed  map[closedKey]model.ClosedPosition
	active  map[activeKey]model.ActivePosition
}

func (s *MemoryStore) snapshot() memSnapshot {
	return memSnapshot{
		nextID:  s.nextID,
		users:   maps.Clone(s.users),
		markets: maps.Clone(s.markets),
		closed:  maps.Clone(s.closed),
		active:  maps.Clone(s.active),
	}
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.nextID = snap.nextID
	s.users = snap.users
	s.markets = snap.markets
	s.closed = snap.closed
	s.active = snap.active
}

// User returns the stored user row for an external id.
func (s *MemoryStore) User(userID string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return u, ok
}

// Market returns the stored market row for an external id.
func (s *MemoryStore) Market(marketID string) (model.Market, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.markets[marketID]
	return m, ok
}

// ClosedPositions returns all stored closed positions for a user.
func (s *MemoryStore) ClosedPositions(userPK int64) []model.ClosedPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ClosedPosition
	for k, p := range s.closed {
		if k.userPK == userPK {
			out = append(out, p)
		}
	}
	return out
}

// ActivePositions returns all stored active positions for a user.
func (s *MemoryStore) ActivePositions(userPK int64) []model.ActivePosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ActivePosition
	for k, p := range s.active {
		if k.userPK == userPK {
			out = append(out, p)
		}
	}
	return out
}

// memScope implements Scope against the locked store.
type memScope struct {
	store *MemoryStore
}

func (s *memScope) UpsertUser(_ context.Context, userID, displayName string) (int64, error) {
	if u, ok := s.store.users[userID]; ok {
		if displayName != "" && displayName != u.DisplayName {
			u.DisplayName = displayName
			s.store.users[userID] = u
		}
		return u.ID, nil
	}

	s.store.nextID++
	u := model.User{ID: s.store.nextID, UserID: userID, DisplayName: displayName}
	s.store.users[userID] = u
	return u.ID, nil
}

func (s *memScope) MarketKeys(_ context.Context, externalIDs []string) (map[string]int64, error) {
	keys := make(map[string]int64, len(externalIDs))
	for _, id := range externalIDs {
		if m, ok := s.store.markets[id]; ok {
			keys[id] = m.ID
		}
	}
	return keys, nil
}

func (s *memScope) InsertMarkets(_ context.Context, markets []model.Market) error {
	for _, m := range markets {
		if _, ok := s.store.markets[m.MarketID]; ok {
			continue // conflict ignored, existing row untouched
		}
		s.store.nextID++
		m.ID = s.store.nextID
		s.store.markets[m.MarketID] = m
	}
	return nil
}

func (s *memScope) InsertClosedPositions(_ context.Context, positions []model.ClosedPosition) (int, error) {
	inserted := 0
	for _, p := range positions {
		key := closedKey{p.UserPK, p.MarketPK, p.Side, p.TxHash}
		if _, ok := s.store.closed[key]; ok {
			continue
		}
		s.store.closed[key] = p
		inserted++
	}
	return inserted, nil
}

func (s *memScope) UpsertActivePositions(_ context.Context, positions []model.ActivePosition) (int, error) {
	for _, p := range positions {
		s.store.active[activeKey{p.UserPK, p.Asset}] = p
	}
	return len(positions), nil
}
