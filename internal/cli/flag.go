package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFlagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flag <issue-id>",
		Short: "Flag an issue as inappropriate",
		Long:  "Flag an issue for moderation. Issues with enough flags are hidden automatically.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}
			if err := restoreSession(cmd); err != nil {
				return err
			}

			flags, err := sess.API().FlagIssue(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Issue #%d now has %d flags\n", id, flags)
			return nil
		},
	}
}
