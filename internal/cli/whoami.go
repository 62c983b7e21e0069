package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreSession(cmd); err != nil {
				return err
			}

			user := sess.User()
			fmt.Printf("User:  %s\n", user.Username)
			fmt.Printf("Email: %s\n", user.Email)
			if user.IsAdmin {
				fmt.Println("Role:  admin")
			}
			return nil
		},
	}
}
