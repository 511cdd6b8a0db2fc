package game

import "time"

// Identity is the verified Telegram identity carried by every request.
type Identity struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	PhotoURL   string
}

type Player struct {
	ID         int64
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	PhotoURL   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p Player) DisplayName() string {
	return displayName(p.Username, p.FirstName, p.LastName, p.TelegramID)
}

type GameState struct {
	PlayerID    int64
	Tokens      int64
	Level       int32
	TapPower    int32
	Energy      float64
	Cap         int32
	RegenPerSec float64
	LastUpdate  time.Time
}

// Snapshot is the wire shape returned to clients.
type Snapshot struct {
	Tokens      int64   `json:"tokens"`
	Level       int32   `json:"level"`
	TapPower    int32   `json:"tap_power"`
	Energy      float64 `json:"energy"`
	Cap         int32   `json:"cap"`
	RegenPerSec float64 `json:"regen_per_sec"`
	UpgradeCost int64   `json:"upgrade_cost"`
}

func (st GameState) Snapshot() Snapshot {
	return Snapshot{
		Tokens:      st.Tokens,
		Level:       st.Level,
		TapPower:    st.TapPower,
		Energy:      st.Energy,
		Cap:         st.Cap,
		RegenPerSec: st.RegenPerSec,
		UpgradeCost: UpgradeCost(st.TapPower),
	}
}

type PlayerView struct {
	TelegramID  int64  `json:"telegram_id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhotoURL    string `json:"photo_url"`
	DisplayName string `json:"display_name"`
}

func (p Player) View() PlayerView {
	return PlayerView{
		TelegramID:  p.TelegramID,
		Username:    p.Username,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhotoURL:    p.PhotoURL,
		DisplayName: p.DisplayName(),
	}
}

// ActionResult is the envelope for tap and upgrade outcomes. A gated
// action that could not apply is a soft-fail: OK is false, Reason says
// why, and State carries the regen-caught-up state that was persisted.
type ActionResult struct {
	OK     bool     `json:"ok"`
	Reason string   `json:"reason,omitempty"`
	State  Snapshot `json:"state"`
}

type LeaderboardRow struct {
	DisplayName string `json:"display_name"`
	Tokens      int64  `json:"tokens"`
}
