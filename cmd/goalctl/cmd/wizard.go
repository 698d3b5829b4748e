package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/templui/goalwizard/internal/client"
	"github.com/templui/goalwizard/internal/tui"
	"github.com/templui/goalwizard/internal/wizard"
)

const defaultAPIURL = "http://localhost:8090"

func WizardCmd() *cobra.Command {
	var (
		apiURL      string
		userID      string
		token       string
		sessionPath string
		reset       bool
	)

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Plan a goal step by step from the terminal",
		Long: "Walks through goal, clarifying questions, SMART breakdown and actions against a running server.\n" +
			"The draft is saved after every step, so an interrupted session resumes where it stopped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL = resolveAPIURL(cmd, apiURL)
			if token == "" {
				minted, err := mintToken(userID, "", 24*time.Hour)
				if err != nil {
					return fmt.Errorf("no --token given and %w", err)
				}
				token = minted
			}

			session := wizard.NewSession()
			if !reset {
				loaded, err := wizard.LoadSession(sessionPath)
				if err != nil {
					return err
				}
				session = loaded
			}

			ctrl := wizard.NewController(session, client.New(apiURL, token), userID)
			p := tea.NewProgram(
				tui.NewWizardModel(cmd.Context(), ctrl, sessionPath),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("failed to run wizard: %w", err)
			}

			m := final.(tui.WizardModel)
			if err := m.Err(); err != nil {
				return err
			}
			if !m.Done() {
				fmt.Fprintf(cmd.OutOrStdout(), "Draft kept in %s\n", sessionPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", defaultAPIURL, "server base URL (default: $GOALWIZARD_API)")
	cmd.Flags().StringVar(&userID, "user", "", "your user id (required)")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (default: minted from $JWT_SECRET)")
	cmd.Flags().StringVar(&sessionPath, "session", ".goalwizard/session.json", "draft file")
	cmd.Flags().BoolVar(&reset, "reset", false, "discard any saved draft")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// resolveAPIURL prefers an explicit --api over $GOALWIZARD_API. It runs inside
// RunE, after the root command has loaded .env.
func resolveAPIURL(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("api") {
		return flagValue
	}
	return envOr("GOALWIZARD_API", defaultAPIURL)
}
