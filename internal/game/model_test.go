package game

import (
	"testing"
	"time"
)

func TestUpgradeCost(t *testing.T) {
	tests := []struct {
		tapPower int32
		want     int64
	}{
		{tapPower: 1, want: 20},
		{tapPower: 2, want: 40},
		{tapPower: 5, want: 100},
	}
	for _, tc := range tests {
		if got := UpgradeCost(tc.tapPower); got != tc.want {
			t.Fatalf("tap_power=%d got=%d want=%d", tc.tapPower, got, tc.want)
		}
	}
}

func TestUpgradeCostFloor(t *testing.T) {
	// max(10, tap_power*20): the floor only matters below tap_power 1,
	// which the invariants exclude, but the formula must still hold it.
	if got := UpgradeCost(0); got != MinUpgradeCost {
		t.Fatalf("got %d want %d", got, MinUpgradeCost)
	}
}

func TestNewGameStateDefaults(t *testing.T) {
	now := time.Unix(1700000000, 0)
	st := NewGameState(9, now)
	if st.PlayerID != 9 || st.Tokens != 0 || st.Level != DefaultLevel || st.TapPower != DefaultTapPower {
		t.Fatalf("unexpected defaults: %+v", st)
	}
	if st.Energy != float64(DefaultCap) || st.Cap != DefaultCap || st.RegenPerSec != DefaultRegenPerSec {
		t.Fatalf("unexpected resource defaults: %+v", st)
	}
	if !st.LastUpdate.Equal(now) {
		t.Fatalf("last_update not initialized: %v", st.LastUpdate)
	}
}

func TestSnapshotDerivesUpgradeCost(t *testing.T) {
	st := NewGameState(1, time.Now())
	st.TapPower = 3
	snap := st.Snapshot()
	if snap.UpgradeCost != 60 {
		t.Fatalf("got %d want 60", snap.UpgradeCost)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		p    Player
		want string
	}{
		{Player{Username: "alice", FirstName: "Alice"}, "alice"},
		{Player{FirstName: "Bob", LastName: "Stone"}, "Bob Stone"},
		{Player{FirstName: "Bob"}, "Bob"},
		{Player{TelegramID: 77}, "player 77"},
	}
	for _, tc := range tests {
		if got := tc.p.DisplayName(); got != tc.want {
			t.Fatalf("got %q want %q", got, tc.want)
		}
	}
}
