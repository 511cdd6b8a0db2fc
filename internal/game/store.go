package game

import "context"

// Store is the persistence contract the engine runs against. Postgres
// implements it for production; an in-memory implementation backs tests.
type Store interface {
	// UpsertPlayer inserts or overwrites the player row keyed by
	// telegram id (last-write-wins on display metadata, empty values
	// included) and guarantees a game state row with defaults exists.
	// Safe under concurrent calls for the same unseen identity: the
	// loser observes the winner's row.
	UpsertPlayer(ctx context.Context, id Identity) (Player, GameState, error)

	// GetPlayer returns ErrPlayerNotFound for unseen telegram ids.
	GetPlayer(ctx context.Context, telegramID int64) (Player, error)

	GetState(ctx context.Context, playerID int64) (GameState, error)

	// MutateState runs mutate against the current state while holding
	// exclusive access to the row, then persists whatever mutate left
	// behind in a single commit. mutate reports whether the gated
	// action applied; the state is persisted either way, so a regen
	// catch-up survives a soft-fail. Concurrent calls for one player
	// serialize, never interleave.
	MutateState(ctx context.Context, playerID int64, mutate func(*GameState) bool) (GameState, bool, error)

	// TopByTokens returns up to n rows ordered by tokens descending,
	// then player id ascending.
	TopByTokens(ctx context.Context, n int) ([]LeaderboardRow, error)
}
