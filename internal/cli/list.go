package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

func newListCmd() *cobra.Command {
	var (
		lat, lon, radius float64
		category, status string
		asJSON, cached   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues near a location",
		Long:  "List issues within a radius of a point, optionally filtered by category and status. Works without a login.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cached {
				return listCached(cmd, asJSON, lat, lon)
			}

			// Edit permissions in the listing depend on identity, so try a
			// silent restore; browsing stays available to anonymous users.
			if err := restoreSession(cmd); err != nil {
				logger.Debug("listing anonymously", "reason", err)
			}

			issues, err := sess.API().ListIssues(cmd.Context(), civictrack.IssueFilter{
				Lat:      lat,
				Lon:      lon,
				Radius:   radius,
				Category: category,
				Status:   status,
			})
			if err != nil {
				return fmt.Errorf("list issues: %w", err)
			}

			// Cache failures only cost the next --cached run.
			if st, err := openStore(cmd); err == nil {
				if err := st.ReplaceCache(cmd.Context(), issues); err != nil {
					logger.Warn("cache listing", "error", err)
				}
				st.Close()
			}

			return printIssues(issues, asJSON, lat, lon)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the search center")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude of the search center")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Search radius in km (server default 5)")
	cmd.Flags().StringVar(&category, "category", "", "Only this category")
	cmd.Flags().StringVar(&status, "status", "", "Only this status (Reported, In Progress, Resolved)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	cmd.Flags().BoolVar(&cached, "cached", false, "Serve the last fetched listing from the local cache")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lon")
	return cmd
}

func listCached(cmd *cobra.Command, asJSON bool, lat, lon float64) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	issues, fetchedAt, err := st.CachedIssues(cmd.Context())
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	if len(issues) == 0 {
		fmt.Println("Cache is empty; run 'civictrack list' online first.")
		return nil
	}

	if !asJSON {
		fmt.Printf("Cached listing from %s:\n", humanize.Time(fetchedAt))
	}
	return printIssues(issues, asJSON, lat, lon)
}

func printIssues(issues []civictrack.Issue, asJSON bool, lat, lon float64) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	}

	if len(issues) == 0 {
		fmt.Println("No issues found.")
		return nil
	}

	fmt.Printf("%-5s  %-30s  %-12s  %-12s  %5s  %8s  %s\n", "ID", "TITLE", "CATEGORY", "STATUS", "VOTES", "DIST", "REPORTED")
	fmt.Printf("%-5s  %-30s  %-12s  %-12s  %5s  %8s  %s\n", "--", "-----", "--------", "------", "-----", "----", "--------")
	for _, issue := range issues {
		dist := fmt.Sprintf("%.1f km", distanceKm(lat, lon, issue.Latitude, issue.Longitude))
		age := ""
		if !issue.CreatedAt.IsZero() {
			age = humanize.Time(issue.CreatedAt.Time)
		}
		fmt.Printf("%-5d  %-30s  %-12s  %-12s  %5d  %8s  %s\n",
			issue.ID, truncate(issue.Title, 30), truncate(issue.Category, 12),
			issue.Status, issue.Upvotes, dist, age)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// distanceKm is the haversine great-circle distance between two points.
func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
