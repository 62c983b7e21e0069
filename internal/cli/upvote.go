package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newUpvoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upvote <issue-id>",
		Short: "Upvote an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}
			if err := restoreSession(cmd); err != nil {
				return err
			}

			upvotes, err := sess.API().UpvoteIssue(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Issue #%d now has %d upvotes\n", id, upvotes)
			return nil
		},
	}
}

// parseIssueID converts an id argument, rejecting non-numeric input early.
func parseIssueID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid issue id %q", arg)
	}
	return id, nil
}
