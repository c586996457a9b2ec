package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Blaqadonis/azaman/config"
	"github.com/Blaqadonis/azaman/core"
)

func newChatCmd(configPath *string) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start or resume a conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			return runChat(cmd.Context(), rt, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "default", "session id to start or resume")
	return cmd
}

// runChat is the REPL: read a line, run a turn, print the reply.
func runChat(ctx context.Context, rt *runtime, sessionID string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Aza Man is ready (session %q). Type 'exit' to quit.\n", sessionID)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(out, "Goodbye!")
			break
		}

		res, err := rt.router.Turn(ctx, sessionID, line)
		if errors.Is(err, core.ErrSessionBusy) {
			fmt.Fprintln(out, "The previous turn is still running, try again in a moment.")
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nAza Man: %s\n", res.Reply)
	}
	return scanner.Err()
}
