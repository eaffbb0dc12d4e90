package cmd

import (
	"github.com/go-authgate/oauthprovider/internal/bootstrap"

	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server. The database must already use the split schema
unless DATABASE_AUTO_MIGRATE=true, in which case the forward migration runs
before the listener opens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return bootstrap.Run(cmd.Context(), cfg, logger)
		},
	}
}
