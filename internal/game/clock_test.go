package game

import (
	"testing"
	"time"
)

func baseState(now time.Time) GameState {
	st := NewGameState(1, now)
	st.Energy = 10
	return st
}

func TestRegenAccrues(t *testing.T) {
	now := time.Unix(1700000000, 0)
	st := baseState(now)
	got := Regen(st, now.Add(5*time.Second))
	if got.Energy != 20 {
		t.Fatalf("energy=%v want 20", got.Energy)
	}
	if !got.LastUpdate.Equal(now.Add(5 * time.Second)) {
		t.Fatalf("last_update=%v", got.LastUpdate)
	}
}

func TestRegenClampsAtCap(t *testing.T) {
	now := time.Unix(1700000000, 0)
	st := baseState(now)
	got := Regen(st, now.Add(time.Hour))
	if got.Energy != float64(st.Cap) {
		t.Fatalf("energy=%v want cap %d", got.Energy, st.Cap)
	}
}

func TestRegenClockSkew(t *testing.T) {
	now := time.Unix(1700000000, 0)
	st := baseState(now)
	got := Regen(st, now.Add(-time.Minute))
	if got.Energy != st.Energy {
		t.Fatalf("energy moved on negative elapsed: %v", got.Energy)
	}
	if !got.LastUpdate.Equal(now) {
		t.Fatalf("last_update moved backwards: %v", got.LastUpdate)
	}
}

func TestRegenComposes(t *testing.T) {
	now := time.Unix(1700000000, 0)
	st := baseState(now)
	t1 := now.Add(7 * time.Second)
	t2 := now.Add(19 * time.Second)

	stepped := Regen(Regen(st, t1), t2)
	direct := Regen(st, t2)
	if stepped.Energy != direct.Energy {
		t.Fatalf("stepped=%v direct=%v", stepped.Energy, direct.Energy)
	}
	if !stepped.LastUpdate.Equal(direct.LastUpdate) {
		t.Fatalf("stepped last_update=%v direct=%v", stepped.LastUpdate, direct.LastUpdate)
	}
}
