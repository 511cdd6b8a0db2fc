package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// LeaderboardCache mirrors token totals for fast ranked reads. Writes are
// best-effort: a cache failure never fails the action that triggered it.
type LeaderboardCache interface {
	Record(ctx context.Context, playerID int64, displayName string, tokens int64) error
	// Top returns ok=false when the cache holds no data yet, signalling
	// the caller to fall back to storage.
	Top(ctx context.Context, n int) (rows []LeaderboardRow, ok bool, err error)
}

type Service struct {
	store Store
	cache LeaderboardCache
	log   *slog.Logger
	now   func() time.Time
}

// NewService wires the engine against its storage backend. cache may be
// nil; clock may be nil to use wall time.
func NewService(store Store, cache LeaderboardCache, clock func() time.Time, logger *slog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store: store,
		cache: cache,
		log:   logger,
		now:   clock,
	}
}

// Authenticate resolves (or creates) the player behind a verified
// identity and returns its state with energy caught up. The catch-up is
// committed so last_update stays honest between sessions.
func (s *Service) Authenticate(ctx context.Context, id Identity) (Player, Snapshot, error) {
	player, _, err := s.store.UpsertPlayer(ctx, id)
	if err != nil {
		return Player{}, Snapshot{}, fmt.Errorf("upsert player: %w", err)
	}
	now := s.now()
	st, _, err := s.store.MutateState(ctx, player.ID, func(st *GameState) bool {
		*st = Regen(*st, now)
		return true
	})
	if err != nil {
		return Player{}, Snapshot{}, fmt.Errorf("regen state: %w", err)
	}
	return player, st.Snapshot(), nil
}

// Tap applies regen, then spends one energy for tap_power tokens. With
// less than one energy the regen catch-up still commits and the result
// comes back as a skip, not an error.
func (s *Service) Tap(ctx context.Context, id Identity) (ActionResult, error) {
	player, _, err := s.store.UpsertPlayer(ctx, id)
	if err != nil {
		return ActionResult{}, fmt.Errorf("upsert player: %w", err)
	}
	now := s.now()
	st, applied, err := s.store.MutateState(ctx, player.ID, func(st *GameState) bool {
		*st = Regen(*st, now)
		if st.Energy < 1 {
			return false
		}
		st.Energy -= 1
		st.Tokens += int64(st.TapPower)
		return true
	})
	if err != nil {
		return ActionResult{}, fmt.Errorf("tap: %w", err)
	}
	res := ActionResult{OK: applied, State: st.Snapshot()}
	if !applied {
		res.Reason = "not enough energy"
	} else {
		s.recordTokens(ctx, player, st.Tokens)
	}
	return res, nil
}

// Upgrade spends tokens for +1 tap power. The cost is computed here from
// the post-regen tap power, never taken from the request.
func (s *Service) Upgrade(ctx context.Context, id Identity) (ActionResult, error) {
	player, _, err := s.store.UpsertPlayer(ctx, id)
	if err != nil {
		return ActionResult{}, fmt.Errorf("upsert player: %w", err)
	}
	now := s.now()
	var cost int64
	st, applied, err := s.store.MutateState(ctx, player.ID, func(st *GameState) bool {
		*st = Regen(*st, now)
		cost = UpgradeCost(st.TapPower)
		if st.Tokens < cost {
			return false
		}
		st.Tokens -= cost
		st.TapPower += 1
		return true
	})
	if err != nil {
		return ActionResult{}, fmt.Errorf("upgrade: %w", err)
	}
	res := ActionResult{OK: applied, State: st.Snapshot()}
	if !applied {
		res.Reason = fmt.Sprintf("not enough tokens: upgrade costs %d", cost)
	} else {
		s.recordTokens(ctx, player, st.Tokens)
	}
	return res, nil
}

// Leaderboard returns the top n players by last-persisted token totals.
// No regen catch-up: tokens only move on committed taps and upgrades.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]LeaderboardRow, error) {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}
	if n > MaxLeaderboardSize {
		n = MaxLeaderboardSize
	}
	if s.cache != nil {
		rows, ok, err := s.cache.Top(ctx, n)
		if err != nil {
			s.log.Warn("leaderboard cache read failed, falling back to storage", "err", err)
		} else if ok {
			return rows, nil
		}
	}
	rows, err := s.store.TopByTokens(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return rows, nil
}

func (s *Service) recordTokens(ctx context.Context, player Player, tokens int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Record(ctx, player.ID, player.DisplayName(), tokens); err != nil {
		s.log.Warn("leaderboard cache update failed", "player_id", player.ID, "err", err)
	}
}
