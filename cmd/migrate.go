package cmd

import (
	"fmt"

	"github.com/go-authgate/oauthprovider/internal/bootstrap"
	"github.com/go-authgate/oauthprovider/internal/migration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move the database between the legacy and split schemas",
		Long: `Steps run in order on one pinned connection, without a wrapping
transaction; on postgres an advisory lock keeps concurrent runs apart. Every
step is idempotent. A failed step stops the run and leaves the steps before it
applied; inspect with "migrate status" and repair by hand before retrying.`,
	}
	cmd.AddCommand(
		newMigrateRunCmd(migration.DirectionUp, "Migrate the legacy schema to the split schema"),
		newMigrateRunCmd(migration.DirectionDown, "Restore the legacy schema from the split schema"),
		newMigrateStatusCmd(),
	)
	return cmd
}

func newMigrateRunCmd(direction migration.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(direction),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := bootstrap.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			migrator := migration.New(db.DB(), logger.Named("migration"))
			if direction == migration.DirectionUp {
				err = migrator.Up(cmd.Context())
			} else {
				err = migrator.Down(cmd.Context())
			}
			if err != nil {
				logger.Error("migration failed", zap.String("direction", string(direction)), zap.Error(err))
				return err
			}

			state, err := migrator.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s complete, schema is %s\n", direction, state)
			return nil
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the schema is legacy, split or mixed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := bootstrap.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			state, err := migration.New(db.DB(), logger).Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), state)
			return nil
		},
	}
}
