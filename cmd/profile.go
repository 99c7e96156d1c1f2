package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/quiz"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile, refreshed from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		offline, _ := cmd.Flags().GetBool("offline")

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
		if !offline {
			if p, err = env.engine.MergeOnLoad(ctx); err != nil {
				return err
			}
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		printProfile(cmd.OutOrStdout(), p, env.engine.Pending())
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Change your name, position, email or phone",
	RunE: func(cmd *cobra.Command, args []string) error {
		var edit profile.Edit
		flag := func(name string) *string {
			if !cmd.Flags().Changed(name) {
				return nil
			}
			v, _ := cmd.Flags().GetString(name)
			return &v
		}
		edit.Name = flag("name")
		edit.Position = flag("position")
		edit.Email = flag("email")
		edit.Phone = flag("phone")
		if edit.Empty() {
			return fmt.Errorf("nothing to change; pass at least one of --name, --position, --email, --phone")
		}
		if err := edit.Validate(); err != nil {
			return err
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		if err := env.requireProfile(ctx); err != nil {
			return err
		}
		p, err := env.engine.ApplyProfileEdit(ctx, edit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if pending := env.engine.Pending(); len(pending) > 0 {
			fmt.Fprintln(out, "Saved locally; will sync when the server is reachable.")
		} else {
			fmt.Fprintln(out, "Profile updated.")
		}
		printProfile(out, p, env.engine.Pending())
		return nil
	},
}

func printProfile(w io.Writer, p profile.UserProfile, pending []profile.Field) {
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%-10s %s\n", label+":", value)
	}
	row("Name", p.Name)
	row("Email", p.Email)
	row("Position", p.Position)
	row("Phone", p.Phone)
	row("Rank", string(p.Rank))
	row("League", fmt.Sprintf("%s (%d XP this week)", p.CurrentLeague, p.WeeklyXP))
	row("XP", fmt.Sprintf("%d", p.TotalXP))
	row("Solved", fmt.Sprintf("%d", p.QuestionsSolved))
	row("Streak", fmt.Sprintf("%d days (best %d)", p.CurrentStreak, p.LongestStreak))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mastery")
	for _, t := range quiz.Topics {
		m := p.MasteryFor(t)
		bar := strings.Repeat("█", m/5) + strings.Repeat("░", 20-m/5)
		fmt.Fprintf(w, "  %-12s %s %3d%%\n", t, bar, m)
	}

	if badges := p.UnlockedBadges(); len(badges) > 0 {
		names := make([]string, len(badges))
		for i, b := range badges {
			names[i] = strings.TrimSpace(b.Icon + " " + b.Name)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Badges:", strings.Join(names, ", "))
	}

	if len(pending) > 0 {
		names := make([]string, len(pending))
		for i, f := range pending {
			names[i] = string(f)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Waiting to sync:", strings.Join(names, ", "))
	}
}

func init() {
	profileShowCmd.Flags().Bool("json", false, "Export the profile as JSON")
	profileShowCmd.Flags().Bool("offline", false, "Show the cached profile without contacting the server")

	profileEditCmd.Flags().String("name", "", "Display name")
	profileEditCmd.Flags().String("position", "", "Job title")
	profileEditCmd.Flags().String("email", "", "Email address")
	profileEditCmd.Flags().String("phone", "", "Phone number")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)
}
