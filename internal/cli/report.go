package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

func newReportCmd() *cobra.Command {
	var req reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report a new civic issue",
		Long:  "Report an issue at a location, optionally attaching photos (png, jpg, jpeg, gif).",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreSession(cmd); err != nil {
				return err
			}

			request, closeImages, err := req.toRequest()
			if err != nil {
				return err
			}
			defer closeImages()

			issue, err := sess.API().ReportIssue(cmd.Context(), request)
			if err != nil {
				return err
			}

			fmt.Printf("Issue #%d reported (%s, status %s)\n", issue.ID, issue.Category, issue.Status)
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

// reportFlags is shared between `report` and `draft save`.
type reportFlags struct {
	title       string
	description string
	category    string
	lat         float64
	lon         float64
	anonymous   bool
	images      []string
}

func (f *reportFlags) install(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Short issue title")
	cmd.Flags().StringVar(&f.description, "description", "", "Longer description of the issue")
	cmd.Flags().StringVar(&f.category, "category", "", "Issue category, e.g. Roads, Water, Lighting")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Latitude of the issue")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "Longitude of the issue")
	cmd.Flags().BoolVar(&f.anonymous, "anonymous", false, "Hide your identity on the issue")
	cmd.Flags().StringArrayVar(&f.images, "image", nil, "Photo to attach (repeatable)")
}

// toRequest opens the image files and builds the API request. The returned
// func closes the files once the upload is done.
func (f *reportFlags) toRequest() (civictrack.ReportRequest, func(), error) {
	req := civictrack.ReportRequest{
		Title:       f.title,
		Description: f.description,
		Category:    f.category,
		Latitude:    f.lat,
		Longitude:   f.lon,
		Anonymous:   f.anonymous,
	}

	var files []*os.File
	closeAll := func() {
		for _, file := range files {
			file.Close()
		}
	}

	for _, path := range f.images {
		file, err := os.Open(path)
		if err != nil {
			closeAll()
			return civictrack.ReportRequest{}, nil, fmt.Errorf("open image: %w", err)
		}
		files = append(files, file)
		req.Images = append(req.Images, civictrack.Image{
			Filename: filepath.Base(path),
			Content:  file,
		})
	}
	return req, closeAll, nil
}
