package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Long:  "Discard the stored session token. Safe to run when already logged out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sess.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
