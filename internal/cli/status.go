package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <issue-id> <status>",
		Short: "Set an issue's status (admin)",
		Long:  `Transition an issue to "Reported", "In Progress", or "Resolved". Requires an admin account.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}
			status := args[1]
			if !slices.Contains(civictrack.AssignableStatuses, status) {
				return fmt.Errorf("invalid status %q (want one of: %s)", status, strings.Join(civictrack.AssignableStatuses, ", "))
			}

			if err := restoreSession(cmd); err != nil {
				return err
			}

			issue, err := sess.API().UpdateIssueStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Printf("Issue #%d is now %s\n", issue.ID, issue.Status)
			return nil
		},
	}
}
