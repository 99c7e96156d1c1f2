package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your email",
	Long: "Sign in with your email. The account is created on first use. An\n" +
		"optional --name replaces the default display name.",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := env.engine.Login(cmd.Context(), email, name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Signed in as %s <%s>\n", p.Name, p.Email)
		fmt.Fprintf(out, "%d XP · %d day streak · %s · %s league\n",
			p.TotalXP, p.CurrentStreak, p.Rank, p.CurrentLeague)
		if pending := env.engine.Pending(); len(pending) > 0 {
			fmt.Fprintln(out, "Your name will sync the next time the server is reachable.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear cached progress on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.engine.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email (required)")
	loginCmd.Flags().String("name", "", "Display name to use if none is set")
	_ = loginCmd.MarkFlagRequired("email")
}
