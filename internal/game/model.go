package game

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultCap         = int32(100)
	DefaultRegenPerSec = 2.0
	DefaultTapPower    = int32(1)
	DefaultLevel       = int32(1)

	MinUpgradeCost      = int64(10)
	UpgradeCostPerPower = int64(20)

	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

var ErrPlayerNotFound = errors.New("player not found")

// UpgradeCost is derived from the current tap power on every call and is
// never read from a client or stored.
func UpgradeCost(tapPower int32) int64 {
	cost := int64(tapPower) * UpgradeCostPerPower
	if cost < MinUpgradeCost {
		return MinUpgradeCost
	}
	return cost
}

// NewGameState mirrors the column defaults in schema.sql. Rows are only
// ever created through this constructor or those defaults, so every
// stored state satisfies cap > 0, regen_per_sec > 0 and 0 <= energy <= cap.
func NewGameState(playerID int64, now time.Time) GameState {
	return GameState{
		PlayerID:    playerID,
		Tokens:      0,
		Level:       DefaultLevel,
		TapPower:    DefaultTapPower,
		Energy:      float64(DefaultCap),
		Cap:         DefaultCap,
		RegenPerSec: DefaultRegenPerSec,
		LastUpdate:  now,
	}
}

func displayName(username, firstName, lastName string, telegramID int64) string {
	if username != "" {
		return username
	}
	full := strings.TrimSpace(firstName + " " + lastName)
	if full != "" {
		return full
	}
	return "player " + strconv.FormatInt(telegramID, 10)
}
