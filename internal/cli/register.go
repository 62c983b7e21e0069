package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a CivicTrack account",
		Long:  "Register a new account and start a session with it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = promptLine("Username"); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = promptLine("Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptLine("Password"); err != nil {
					return err
				}
			}
			if username == "" || email == "" || password == "" {
				return fmt.Errorf("username, email, and password cannot be empty")
			}

			user, err := sess.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Registered and logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username (prompted if omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}
