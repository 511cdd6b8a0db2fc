package main

import (
	"fmt"

	"github.com/fatih/color"

	"tokentap/internal/game"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printPlayer(p game.PlayerView) {
	accent.Printf("%s", p.DisplayName)
	neutral.Printf("  (telegram id %d)\n", p.TelegramID)
}

func printSnapshot(st game.Snapshot) {
	neutral.Printf("tokens: %d   level: %d   tap power: %d\n", st.Tokens, st.Level, st.TapPower)
	neutral.Printf("energy: %.1f/%d (+%.1f/s)   next upgrade: %d tokens\n",
		st.Energy, st.Cap, st.RegenPerSec, st.UpgradeCost)
}

func printLeaderboard(rows []game.LeaderboardRow) {
	if len(rows) == 0 {
		neutral.Println("leaderboard is empty")
		return
	}
	for i, row := range rows {
		accent.Printf("%2d. ", i+1)
		neutral.Printf("%-24s ", row.DisplayName)
		fmt.Printf("%d\n", row.Tokens)
	}
}
