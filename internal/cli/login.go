package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the CivicTrack server",
		Long:  "Authenticate with username and password and store the session token for later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = promptLine("Username"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptLine("Password"); err != nil {
					return err
				}
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password cannot be empty")
			}

			user, err := sess.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}
