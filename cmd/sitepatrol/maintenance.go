package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/sitepatrol/internal/service"
)

var (
	pruneKeep  int
	resetForce bool
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Housekeeping for the local database",
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop old route revisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeFn, err := openLocal(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		n, err := (&service.MaintenanceService{DB: svc.DB}).PruneRevisions(ctx, pruneKeep)
		if err != nil {
			return err
		}
		logger.Info("revisions pruned", zap.Int64("deleted", n), zap.Int("keep", pruneKeep))
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d revisions\n", n)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every site, checkpoint and route",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			return errors.New("reset deletes all data; pass --yes to confirm")
		}
		ctx := cmd.Context()
		svc, closeFn, err := openLocal(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := (&service.MaintenanceService{DB: svc.DB, Cache: svc.Cache}).Reset(ctx); err != nil {
			return err
		}
		logger.Warn("database reset", zap.String("path", cfg.Database.Path))
		fmt.Fprintln(cmd.OutOrStdout(), "database reset")
		return nil
	},
}

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 10, "revisions to keep per route")
	resetCmd.Flags().BoolVar(&resetForce, "yes", false, "confirm the reset")
	maintenanceCmd.AddCommand(pruneCmd, resetCmd)
	rootCmd.AddCommand(maintenanceCmd)
}
