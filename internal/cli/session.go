package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionFindCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionPlayCmd())
	cmd.AddCommand(newSessionLeaveCmd())

	return cmd
}

func newSessionFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Find an opponent or open a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionResult

			if err := client.Post("/api/v1/sessions/find", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get current session state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var result SessionResult

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id> <cell>",
		Short: "Mark a cell (0-8, left to right, top to bottom)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cell, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid cell: %w", err)
			}

			req := map[string]int{"cell": cell}
			var result SessionResult

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/play", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/leave", id), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left session")
			return nil
		},
	}
}
