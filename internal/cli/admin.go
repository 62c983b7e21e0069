package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}
	cmd.AddCommand(newAdminListCmd(), newAdminDeleteCmd())
	return cmd
}

func newAdminListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every issue on the server (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreSession(cmd); err != nil {
				return err
			}

			issues, err := sess.API().AdminListIssues(cmd.Context())
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Println("No issues found.")
				return nil
			}

			fmt.Printf("%-5s  %-30s  %-12s  %-12s  %5s  %5s  %s\n", "ID", "TITLE", "CATEGORY", "STATUS", "VOTES", "FLAGS", "REPORTED")
			for _, issue := range issues {
				age := ""
				if !issue.CreatedAt.IsZero() {
					age = humanize.Time(issue.CreatedAt.Time)
				}
				fmt.Printf("%-5d  %-30s  %-12s  %-12s  %5d  %5d  %s\n",
					issue.ID, truncate(issue.Title, 30), truncate(issue.Category, 12),
					issue.Status, issue.Upvotes, issue.Flags, age)
			}
			return nil
		},
	}
}

func newAdminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <issue-id>",
		Short: "Delete an issue (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}
			if err := restoreSession(cmd); err != nil {
				return err
			}

			if err := sess.API().AdminDeleteIssue(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Issue #%d deleted\n", id)
			return nil
		},
	}
}
