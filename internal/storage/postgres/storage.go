// Package postgres implements game.Store on a pgx connection pool.
// Per-player mutations take a row lock (SELECT ... FOR UPDATE) so the
// regen catch-up and the gated action commit as one write.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tokentap/internal/game"
)

type Storage struct {
	pool *pgxpool.Pool
}

var _ game.Store = (*Storage)(nil)

func Connect(ctx context.Context, databaseURL string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

const playerColumns = `id, telegram_id, username, first_name, last_name, photo_url, created_at, updated_at`

const stateColumns = `player_id, tokens, level, tap_power, energy, cap, regen_per_sec, last_update`

func (s *Storage) UpsertPlayer(ctx context.Context, id game.Identity) (game.Player, game.GameState, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return game.Player{}, game.GameState{}, err
	}
	defer tx.Rollback(ctx)

	var p game.Player
	err = tx.QueryRow(ctx, `
		INSERT INTO players (telegram_id, username, first_name, last_name, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			photo_url = EXCLUDED.photo_url,
			updated_at = now()
		RETURNING `+playerColumns+`
	`, id.TelegramID, id.Username, id.FirstName, id.LastName, id.PhotoURL).Scan(
		&p.ID, &p.TelegramID, &p.Username, &p.FirstName, &p.LastName, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return game.Player{}, game.GameState{}, err
	}

	// Defaults come from the schema; DO NOTHING keeps creation idempotent.
	if _, err := tx.Exec(ctx, `
		INSERT INTO game_states (player_id)
		VALUES ($1)
		ON CONFLICT (player_id) DO NOTHING
	`, p.ID); err != nil {
		return game.Player{}, game.GameState{}, err
	}

	st, err := scanState(tx.QueryRow(ctx, `
		SELECT `+stateColumns+`
		FROM game_states
		WHERE player_id = $1
	`, p.ID))
	if err != nil {
		return game.Player{}, game.GameState{}, err
	}
	return p, st, tx.Commit(ctx)
}

func (s *Storage) GetPlayer(ctx context.Context, telegramID int64) (game.Player, error) {
	var p game.Player
	err := s.pool.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE telegram_id = $1
	`, telegramID).Scan(
		&p.ID, &p.TelegramID, &p.Username, &p.FirstName, &p.LastName, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.Player{}, game.ErrPlayerNotFound
	}
	return p, err
}

func (s *Storage) GetState(ctx context.Context, playerID int64) (game.GameState, error) {
	st, err := scanState(s.pool.QueryRow(ctx, `
		SELECT `+stateColumns+`
		FROM game_states
		WHERE player_id = $1
	`, playerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return game.GameState{}, game.ErrPlayerNotFound
	}
	return st, err
}

func (s *Storage) MutateState(ctx context.Context, playerID int64, mutate func(*game.GameState) bool) (game.GameState, bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return game.GameState{}, false, err
	}
	defer tx.Rollback(ctx)

	st, err := scanState(tx.QueryRow(ctx, `
		SELECT `+stateColumns+`
		FROM game_states
		WHERE player_id = $1
		FOR UPDATE
	`, playerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return game.GameState{}, false, game.ErrPlayerNotFound
	}
	if err != nil {
		return game.GameState{}, false, err
	}

	applied := mutate(&st)

	if _, err := tx.Exec(ctx, `
		UPDATE game_states
		SET tokens = $2, level = $3, tap_power = $4, energy = $5, cap = $6, regen_per_sec = $7, last_update = $8
		WHERE player_id = $1
	`, st.PlayerID, st.Tokens, st.Level, st.TapPower, st.Energy, st.Cap, st.RegenPerSec, st.LastUpdate); err != nil {
		return game.GameState{}, false, err
	}
	return st, applied, tx.Commit(ctx)
}

func (s *Storage) TopByTokens(ctx context.Context, n int) ([]game.LeaderboardRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.telegram_id, p.username, p.first_name, p.last_name, g.tokens
		FROM game_states g
		JOIN players p ON p.id = g.player_id
		ORDER BY g.tokens DESC, g.player_id ASC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.LeaderboardRow
	for rows.Next() {
		var p game.Player
		var tokens int64
		if err := rows.Scan(&p.TelegramID, &p.Username, &p.FirstName, &p.LastName, &tokens); err != nil {
			return nil, err
		}
		out = append(out, game.LeaderboardRow{DisplayName: p.DisplayName(), Tokens: tokens})
	}
	return out, rows.Err()
}

func scanState(row pgx.Row) (game.GameState, error) {
	var st game.GameState
	err := row.Scan(&st.PlayerID, &st.Tokens, &st.Level, &st.TapPower, &st.Energy, &st.Cap, &st.RegenPerSec, &st.LastUpdate)
	return st, err
}
