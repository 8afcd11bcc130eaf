package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
)

// Store keeps users, matches and bets behind one mutex. Repositories are
// thin views over a shared Store so a scoring transaction sees and writes
// every table atomically.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	users   map[int64]user.User
	matches map[int64]match.Match
	bets    map[int64]bet.Bet

	nextUserID  int64
	nextMatchID int64
	nextBetID   int64
}

func NewStore(seed Seed) *Store {
	s := &Store{
		now:     time.Now,
		users:   make(map[int64]user.User),
		matches: make(map[int64]match.Match),
		bets:    make(map[int64]bet.Bet),
	}
	for _, u := range seed.Users {
		s.putUser(u)
	}
	for _, m := range seed.Matches {
		s.putMatch(m)
	}
	for _, b := range seed.Bets {
		s.putBet(b)
	}
	return s
}

// AddUser inserts u, assigning an id when u.ID is zero.
func (s *Store) AddUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID != 0 {
		if _, exists := s.users[u.ID]; exists {
			return user.User{}, fmt.Errorf("add user: id=%d already exists", u.ID)
		}
	}
	return s.putUser(u), nil
}

// AddMatch inserts m, assigning an id when m.ID is zero.
func (s *Store) AddMatch(_ context.Context, m match.Match) (match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID != 0 {
		if _, exists := s.matches[m.ID]; exists {
			return match.Match{}, fmt.Errorf("add match: id=%d already exists", m.ID)
		}
	}
	return s.putMatch(m), nil
}

func (s *Store) putUser(u user.User) user.User {
	if u.ID == 0 {
		s.nextUserID++
		u.ID = s.nextUserID
	} else if u.ID > s.nextUserID {
		s.nextUserID = u.ID
	}
	now := s.now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	s.users[u.ID] = u
	return u
}

func (s *Store) putMatch(m match.Match) match.Match {
	if m.ID == 0 {
		s.nextMatchID++
		m.ID = s.nextMatchID
	} else if m.ID > s.nextMatchID {
		s.nextMatchID = m.ID
	}
	now := s.now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	s.matches[m.ID] = m
	return m
}

func (s *Store) putBet(b bet.Bet) bet.Bet {
	if b.ID == 0 {
		s.nextBetID++
		b.ID = s.nextBetID
	} else if b.ID > s.nextBetID {
		s.nextBetID = b.ID
	}
	now := s.now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	s.bets[b.ID] = b
	return b
}

type snapshot struct {
	users   map[int64]user.User
	matches map[int64]match.Match
	bets    map[int64]bet.Bet

	nextUserID  int64
	nextMatchID int64
	nextBetID   int64
}

// takeSnapshot must be called with mu held. Stored values are replaced,
// never mutated in place, so cloning the maps is enough to roll back.
func (s *Store) takeSnapshot() snapshot {
	return snapshot{
		users:       maps.Clone(s.users),
		matches:     maps.Clone(s.matches),
		bets:        maps.Clone(s.bets),
		nextUserID:  s.nextUserID,
		nextMatchID: s.nextMatchID,
		nextBetID:   s.nextBetID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.matches = snap.matches
	s.bets = snap.bets
	s.nextUserID = snap.nextUserID
	s.nextMatchID = snap.nextMatchID
	s.nextBetID = snap.nextBetID
}
