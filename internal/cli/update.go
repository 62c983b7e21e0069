package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

func newUpdateCmd() *cobra.Command {
	var title, description, category string

	cmd := &cobra.Command{
		Use:   "update <issue-id>",
		Short: "Edit an issue you reported",
		Long:  "Update the title, description, or category of one of your issues. Only the flags you pass change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}

			var req civictrack.UpdateIssueRequest
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("category") {
				req.Category = &category
			}
			if req.Title == nil && req.Description == nil && req.Category == nil {
				return fmt.Errorf("nothing to update: pass --title, --description, or --category")
			}

			if err := restoreSession(cmd); err != nil {
				return err
			}

			issue, err := sess.API().UpdateIssue(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Printf("Issue #%d updated: %s\n", issue.ID, issue.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	return cmd
}
