package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokentap/internal/game"
)

func TestUpsertPlayerIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := game.Identity{TelegramID: 42, Username: "alice"}

	p1, st1, err := s.UpsertPlayer(ctx, id)
	require.NoError(t, err)
	p2, st2, err := s.UpsertPlayer(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, p1.ID, p2.ID)
	assert.Equal(t, st1.PlayerID, st2.PlayerID)
	assert.Equal(t, float64(game.DefaultCap), st2.Energy, "game state must not be recreated")
}

func TestUpsertPlayerOverwritesMetadata(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, _, err := s.UpsertPlayer(ctx, game.Identity{TelegramID: 42, Username: "alice", PhotoURL: "x"})
	require.NoError(t, err)
	p, _, err := s.UpsertPlayer(ctx, game.Identity{TelegramID: 42, FirstName: "Alice"})
	require.NoError(t, err)

	assert.Empty(t, p.Username)
	assert.Empty(t, p.PhotoURL)
	assert.Equal(t, "Alice", p.FirstName)
}

func TestGetPlayerNotFound(t *testing.T) {
	s := New()
	_, err := s.GetPlayer(context.Background(), 999)
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)
}

func TestMutateStateNotFound(t *testing.T) {
	s := New()
	_, _, err := s.MutateState(context.Background(), 999, func(*game.GameState) bool { return true })
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)
}

func TestMutateStatePersistsOnSoftFail(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, _, err := s.UpsertPlayer(ctx, game.Identity{TelegramID: 42})
	require.NoError(t, err)

	st, applied, err := s.MutateState(ctx, p.ID, func(st *game.GameState) bool {
		st.Energy = 33
		return false
	})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, float64(33), st.Energy)

	stored, err := s.GetState(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(33), stored.Energy, "mutation persists even when the action did not apply")
}

func TestTopByTokensOrderAndTies(t *testing.T) {
	s := New()
	s.Now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	seed := []struct {
		tgID     int64
		username string
		tokens   int64
	}{
		{1, "first", 30},
		{2, "rich", 50},
		{3, "second", 30},
	}
	for _, row := range seed {
		p, _, err := s.UpsertPlayer(ctx, game.Identity{TelegramID: row.tgID, Username: row.username})
		require.NoError(t, err)
		tokens := row.tokens
		_, _, err = s.MutateState(ctx, p.ID, func(st *game.GameState) bool {
			st.Tokens = tokens
			return true
		})
		require.NoError(t, err)
	}

	rows, err := s.TopByTokens(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "rich", rows[0].DisplayName)
	assert.Equal(t, "first", rows[1].DisplayName, "ties break by player id ascending")

	all, err := s.TopByTokens(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
