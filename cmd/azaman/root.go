package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "azaman",
		Short: "Aza Man, an AI personal finance assistant",
		Long: `Aza Man helps you set a budget, track expenses and hit your savings goal
through a plain conversation. Sessions are checkpointed to SQLite, so you
can pick up any conversation where you left off.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to config file (default: config.yaml, ~/.config/azaman/config.yaml, /etc/azaman/config.yaml)")

	cmd.AddCommand(
		newChatCmd(&configPath),
		newSessionsCmd(&configPath),
		newResetCmd(&configPath),
	)
	return cmd
}
