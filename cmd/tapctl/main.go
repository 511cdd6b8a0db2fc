package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tokentap/internal/auth"
	cl "tokentap/internal/cli"
	"tokentap/internal/config"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "tapctl",
		Short:        "tokentap developer CLI client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignCmd(&cfg),
		newStateCmd(&apiBase),
		newTapCmd(&apiBase),
		newUpgradeCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newLogoutCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

// credential returns the initData blob commands authenticate with:
// TAPCTL_INIT_DATA when set, else the blob saved by `tapctl sign --save`.
func credential() (string, error) {
	if env := strings.TrimSpace(os.Getenv("TAPCTL_INIT_DATA")); env != "" {
		return env, nil
	}
	cred, err := cl.LoadCredential()
	if err != nil {
		return "", err
	}
	return cred.InitData, nil
}

func newSignCmd(cfg *config.CLIConfig) *cobra.Command {
	var (
		id        int64
		username  string
		firstName string
		lastName  string
		save      bool
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Produce a signed initData blob for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.BotToken == "" {
				return fmt.Errorf("TAPCTL_BOT_TOKEN is required to sign")
			}
			if id == 0 {
				return fmt.Errorf("--id is required")
			}
			rawUser, err := json.Marshal(auth.User{
				ID:        id,
				Username:  username,
				FirstName: firstName,
				LastName:  lastName,
			})
			if err != nil {
				return err
			}
			fields := url.Values{}
			fields.Set("user", string(rawUser))
			fields.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
			blob := auth.Sign(fields, cfg.BotToken)
			if save {
				if err := cl.SaveCredential(cl.Credential{InitData: blob}); err != nil {
					return err
				}
				printSuccess("Credential saved.")
				return nil
			}
			fmt.Println(blob)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "telegram user id")
	cmd.Flags().StringVar(&username, "username", "", "telegram username")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().BoolVar(&save, "save", false, "save the credential for later commands")
	return cmd
}

func newStateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Authenticate and show the current game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := credential()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			resp, err := newClient(apiBase).Authenticate(ctx, blob)
			if err != nil {
				return err
			}
			printPlayer(resp.Player)
			printSnapshot(resp.State)
			return nil
		},
	}
}

func newTapCmd(apiBase *string) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Send tap actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := credential()
			if err != nil {
				return err
			}
			if count < 1 {
				count = 1
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			client := newClient(apiBase)
			applied := 0
			for i := 0; i < count; i++ {
				res, err := client.Tap(ctx, blob)
				if err != nil {
					return err
				}
				if !res.OK {
					printWarn(fmt.Sprintf("tap %d skipped: %s", i+1, res.Reason))
					printSnapshot(res.State)
					return nil
				}
				applied++
				if i == count-1 {
					printSnapshot(res.State)
				}
			}
			printSuccess(fmt.Sprintf("%d taps applied", applied))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of taps to send")
	return cmd
}

func newUpgradeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Buy a tap power upgrade",
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := credential()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			res, err := newClient(apiBase).Upgrade(ctx, blob)
			if err != nil {
				return err
			}
			if res.OK {
				printSuccess("Upgrade purchased.")
			} else {
				printWarn("Upgrade skipped: " + res.Reason)
			}
			printSnapshot(res.State)
			return nil
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top players by tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			rows, err := newClient(apiBase).Leaderboard(ctx, n)
			if err != nil {
				return err
			}
			printLeaderboard(rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 0, "number of rows (server default 10)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the saved credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearCredential(); err != nil {
				return err
			}
			printSuccess("Credential removed.")
			return nil
		},
	}
}
