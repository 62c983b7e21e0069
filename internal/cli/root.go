// Package cli implements the civictrack command-line client.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Singhtanuhub/civicstrack5/internal/config"
	"github.com/Singhtanuhub/civicstrack5/internal/draftstore"
	"github.com/Singhtanuhub/civicstrack5/internal/logging"
	"github.com/Singhtanuhub/civicstrack5/internal/session"
	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.Config
	logger *slog.Logger
	sess   *session.Manager
)

// NewRootCmd creates the root cobra command for the civictrack CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "civictrack",
		Short: "civictrack — report and track local civic issues",
		Long:  "civictrack reports, browses, and upvotes civic issues on a CivicTrack server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			if flagServer != "" {
				c.Server = flagServer
			}
			if cmd.Flags().Changed("log-level") {
				c.LogLevel = flagLogLevel
			}
			if cmd.Flags().Changed("log-format") {
				c.LogFormat = flagLogFormat
			}
			if flagDebug {
				c.LogLevel = "debug"
			}
			cfg = c

			logger = logging.New(logging.ParseLevel(c.LogLevel), c.LogFormat)

			dataDir, err := c.ResolveDataDir()
			if err != nil {
				return err
			}
			creds := session.NewCredentialStore(dataDir)
			apiCfg := civictrack.DefaultConfig().WithBaseURL(c.Server).WithTimeout(c.Timeout)
			sess = session.NewManager(apiCfg, creds, logger)
			sess.OnChange(func(s session.State) {
				logger.Debug("session state changed", "state", s)
			})
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "", "CivicTrack server URL (or CIVICTRACK_SERVER env, default http://localhost:5000)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newReportCmd(),
		newListCmd(),
		newUpvoteCmd(),
		newFlagCmd(),
		newUpdateCmd(),
		newStatusCmd(),
		newAdminCmd(),
		newDraftCmd(),
	)

	return root
}

// restoreSession resurrects the persisted session for commands that need
// authentication. Token problems come back as a re-login hint; the forced
// logout has already happened inside the manager.
func restoreSession(cmd *cobra.Command) error {
	_, err := sess.LoadUser(cmd.Context())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, civictrack.ErrNotAuthenticated):
		return fmt.Errorf("not logged in: run 'civictrack login' first")
	case civictrack.IsTokenError(err):
		return fmt.Errorf("session expired: run 'civictrack login' again")
	default:
		return fmt.Errorf("restore session: %w", err)
	}
}

// openStore opens the local client database, creating the data directory
// on first use. Callers must Close it.
func openStore(cmd *cobra.Command) (*draftstore.Store, error) {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	st, err := draftstore.New(filepath.Join(dataDir, "civictrack.db"), logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate local database: %w", err)
	}
	return st, nil
}
