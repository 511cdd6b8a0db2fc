package game

import "time"

// Regen returns the state with energy caught up to now. It is pure: the
// caller persists the result, and must do so in the same atomic write as
// any action it gates. Elapsed time is clamped at zero so clock skew can
// neither drain energy nor move last_update backwards.
func Regen(st GameState, now time.Time) GameState {
	elapsed := now.Sub(st.LastUpdate).Seconds()
	if elapsed <= 0 {
		return st
	}
	energy := st.Energy + st.RegenPerSec*elapsed
	if energy > float64(st.Cap) {
		energy = float64(st.Cap)
	}
	st.Energy = energy
	st.LastUpdate = now
	return st
}
