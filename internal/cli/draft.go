package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Singhtanuhub/civicstrack5/internal/draftstore"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Work with offline report drafts",
		Long:  "Save reports locally while offline and submit them later.",
	}
	cmd.AddCommand(newDraftSaveCmd(), newDraftListCmd(), newDraftSubmitCmd(), newDraftRmCmd())
	return cmd
}

func newDraftSaveCmd() *cobra.Command {
	var req reportFlags

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a report draft locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			draft := &draftstore.Draft{
				Title:       req.title,
				Description: req.description,
				Category:    req.category,
				Latitude:    req.lat,
				Longitude:   req.lon,
				Anonymous:   req.anonymous,
				Images:      req.images,
			}
			if err := st.SaveDraft(cmd.Context(), draft); err != nil {
				return fmt.Errorf("save draft: %w", err)
			}
			fmt.Printf("Draft saved: %s\n", draft.ID)
			return nil
		},
	}

	req.install(cmd)
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lon")
	return cmd
}

func newDraftListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			drafts, err := st.ListDrafts(cmd.Context())
			if err != nil {
				return fmt.Errorf("list drafts: %w", err)
			}
			if len(drafts) == 0 {
				fmt.Println("No drafts saved.")
				return nil
			}

			fmt.Printf("%-36s  %-30s  %-12s  %s\n", "ID", "TITLE", "CATEGORY", "SAVED")
			for _, d := range drafts {
				fmt.Printf("%-36s  %-30s  %-12s  %s\n",
					d.ID, truncate(d.Title, 30), truncate(d.Category, 12), humanize.Time(d.CreatedAt))
			}
			return nil
		},
	}
}

func newDraftSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <draft-id>",
		Short: "Submit a saved draft to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			draft, err := st.GetDraft(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load draft: %w", err)
			}
			if draft == nil {
				return fmt.Errorf("no draft with id %s", args[0])
			}

			if err := restoreSession(cmd); err != nil {
				return err
			}

			flags := reportFlags{
				title:       draft.Title,
				description: draft.Description,
				category:    draft.Category,
				lat:         draft.Latitude,
				lon:         draft.Longitude,
				anonymous:   draft.Anonymous,
				images:      draft.Images,
			}
			request, closeImages, err := flags.toRequest()
			if err != nil {
				return err
			}
			defer closeImages()

			issue, err := sess.API().ReportIssue(cmd.Context(), request)
			if err != nil {
				return err
			}

			// The draft's job is done only once the server accepted it.
			if err := st.DeleteDraft(cmd.Context(), draft.ID); err != nil {
				logger.Warn("delete submitted draft", "id", draft.ID, "error", err)
			}

			fmt.Printf("Draft submitted as issue #%d\n", issue.ID)
			return nil
		},
	}
}

func newDraftRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <draft-id>",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteDraft(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete draft: %w", err)
			}
			fmt.Printf("Draft %s deleted\n", args[0])
			return nil
		},
	}
}
