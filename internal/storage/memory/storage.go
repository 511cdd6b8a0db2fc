// Package memory is an in-memory game.Store for tests and local
// development. A single mutex stands in for the row locks the postgres
// implementation takes, giving the same per-player serialization.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tokentap/internal/game"
)

type Storage struct {
	mu sync.Mutex

	// Now is swappable so tests control created-at and regen baselines.
	Now func() time.Time

	nextID  int64
	byTgID  map[int64]int64
	players map[int64]game.Player
	states  map[int64]game.GameState
}

var _ game.Store = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		Now:     time.Now,
		byTgID:  make(map[int64]int64),
		players: make(map[int64]game.Player),
		states:  make(map[int64]game.GameState),
	}
}

func (s *Storage) UpsertPlayer(ctx context.Context, id game.Identity) (game.Player, game.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	playerID, seen := s.byTgID[id.TelegramID]
	if !seen {
		s.nextID++
		playerID = s.nextID
		s.byTgID[id.TelegramID] = playerID
		s.players[playerID] = game.Player{
			ID:         playerID,
			TelegramID: id.TelegramID,
			CreatedAt:  now,
		}
	}

	p := s.players[playerID]
	p.Username = id.Username
	p.FirstName = id.FirstName
	p.LastName = id.LastName
	p.PhotoURL = id.PhotoURL
	p.UpdatedAt = now
	s.players[playerID] = p

	if _, ok := s.states[playerID]; !ok {
		s.states[playerID] = game.NewGameState(playerID, now)
	}
	return p, s.states[playerID], nil
}

func (s *Storage) GetPlayer(ctx context.Context, telegramID int64) (game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playerID, ok := s.byTgID[telegramID]
	if !ok {
		return game.Player{}, game.ErrPlayerNotFound
	}
	return s.players[playerID], nil
}

func (s *Storage) GetState(ctx context.Context, playerID int64) (game.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[playerID]
	if !ok {
		return game.GameState{}, game.ErrPlayerNotFound
	}
	return st, nil
}

func (s *Storage) MutateState(ctx context.Context, playerID int64, mutate func(*game.GameState) bool) (game.GameState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[playerID]
	if !ok {
		return game.GameState{}, false, game.ErrPlayerNotFound
	}
	applied := mutate(&st)
	s.states[playerID] = st
	return st, applied, nil
}

func (s *Storage) TopByTokens(ctx context.Context, n int) ([]game.LeaderboardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type entry struct {
		playerID int64
		row      game.LeaderboardRow
	}
	entries := make([]entry, 0, len(s.states))
	for playerID, st := range s.states {
		p := s.players[playerID]
		entries = append(entries, entry{
			playerID: playerID,
			row:      game.LeaderboardRow{DisplayName: p.DisplayName(), Tokens: st.Tokens},
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].row.Tokens != entries[j].row.Tokens {
			return entries[i].row.Tokens > entries[j].row.Tokens
		}
		return entries[i].playerID < entries[j].playerID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]game.LeaderboardRow, len(entries))
	for i, e := range entries {
		out[i] = e.row
	}
	return out, nil
}
