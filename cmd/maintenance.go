package cmd

import (
	"fmt"
	"time"

	"github.com/go-authgate/oauthprovider/internal/bootstrap"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Token store maintenance",
	}

	reap := &cobra.Command{
		Use:   "reap",
		Short: "Delete expired access and refresh tokens",
		Long: `Delete every access token and refresh token whose expiry has passed.
Expired tokens are already rejected by introspection; this only reclaims rows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			m, err := bootstrap.OpenMaintenance(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			res, err := m.Tokens.ReapExpired(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			logger.Info("expired tokens reaped", zap.Int64("access", res.Access), zap.Int64("refresh", res.Refresh))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d access and %d refresh tokens\n", res.Access, res.Refresh)
			return nil
		},
	}
	cmd.AddCommand(reap)
	return cmd
}

func newAuditCmd() *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit log maintenance",
	}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit log entries older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if !cmd.Flags().Changed("retention") {
				retention = cfg.AuditLogRetention
			}
			if retention <= 0 {
				return fmt.Errorf("retention must be positive, got %s", retention)
			}

			m, err := bootstrap.OpenMaintenance(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			deleted, err := m.Audit.Prune(cmd.Context(), retention)
			if err != nil {
				return err
			}
			logger.Info("audit logs pruned", zap.Int64("deleted", deleted), zap.Duration("retention", retention))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d audit log entries\n", deleted)
			return nil
		},
	}
	prune.Flags().DurationVar(&retention, "retention", 0, "Keep entries newer than this (default AUDIT_LOG_RETENTION)")
	cmd.AddCommand(prune)
	return cmd
}
