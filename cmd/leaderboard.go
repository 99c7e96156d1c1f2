package cmd

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devndesk/DevReady/internal/league"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show your weekly league standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		if err := env.requireProfile(ctx); err != nil {
			return err
		}
		p, _ := env.engine.State().Profile()
		view := league.NewView(env.client, p.LeagueGroupID, p.Email, env.log.Named("league"))
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%s league · resets in %s\n", p.CurrentLeague, league.Countdown(time.Now()))
		if !view.Joined() {
			fmt.Fprintln(out, "You're not in a league yet. Answer a question to be placed in this week's group.")
			return nil
		}

		if !watch {
			if err := view.Refresh(ctx); err != nil {
				return fmt.Errorf("load leaderboard: %w", err)
			}
			printStandings(out, view)
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		league.Watch(ctx, view, env.cfg.League.RefreshInterval, env.cfg.League.CountdownInterval, time.Now,
			func(u league.Update) {
				fmt.Fprintf(out, "\n[%s] resets in %s\n", time.Now().Format("15:04:05"), u.Countdown)
				if u.Err != nil && !view.Loaded() {
					fmt.Fprintln(out, "leaderboard unavailable:", u.Err)
					return
				}
				printStandings(out, view)
			})
		return nil
	},
}

func printStandings(w io.Writer, v *league.View) {
	entries := v.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No one has earned XP in this group yet.")
		return
	}
	fmt.Fprintf(w, "%-4s %-28s %-8s %9s\n", "#", "Name", "Rank", "Weekly XP")
	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = e.Email
		}
		if v.IsCurrentUser(e) {
			name += " (you)"
		}
		marker := " "
		if league.InPromotionZone(i) {
			marker = "▲"
		}
		fmt.Fprintf(w, "%s%-3d %-28s %-8s %9d\n", marker, i+1, truncate(name, 28), e.Rank, e.WeeklyXP)
	}
}

func init() {
	leaderboardCmd.Flags().BoolP("watch", "w", false, "Keep refreshing until interrupted")
}
