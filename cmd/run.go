package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devndesk/DevReady/internal/app"
)

const noProviderNotice = `Quizzes are disabled: no LLM API key was found.
Export one of %s
or DEVREADY_LLM_PROVIDER with its DEVREADY_LLM_<PROVIDER>_API_KEY, then restart.
`

// runApp is the default command. The TUI still starts without a generator;
// the dashboard locks the quiz entry instead.
func runApp(cmd *cobra.Command) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	svc := env.services(ctx)
	if svc.Generator == nil {
		keys := []string{"GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"}
		fmt.Fprintf(cmd.ErrOrStderr(), noProviderNotice, strings.Join(keys, ", "))
	}

	if err := app.Run(ctx, svc); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
