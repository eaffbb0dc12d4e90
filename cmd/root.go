package cmd

import (
	"errors"
	"os"

	"github.com/go-authgate/oauthprovider/internal/bootstrap"
	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/migration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (bad configuration, unreachable database).
	ExitCodeError = 1
	// ExitCodeMigrationFailed indicates a schema migration step failed and was rolled back.
	ExitCodeMigrationFailed = 2
)

var rootCmd = &cobra.Command{
	Use:   "oauthprovider",
	Short: "OAuth 2.0 client registry, token store and consent ledger",
	Long: `oauthprovider serves the OAuth 2.0 client registry, token introspection and
revocation, and the consent ledger. It also migrates the database between the
legacy single-table layout and the split client/token/consent layout.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits with a code matching the error.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "oauthprovider version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

func getExitCode(err error) int {
	var migrationErr *migration.MigrationError
	if errors.As(err, &migrationErr) {
		return ExitCodeMigrationFailed
	}
	return ExitCodeError
}

// loadRuntime reads the configuration and installs the process logger.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func init() {
	rootCmd.AddCommand(newServerCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newVersionCmd())
}
