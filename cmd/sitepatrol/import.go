package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/sitepatrol/internal/database"
	"github.com/jask/sitepatrol/internal/seed"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import sites, checkpoints and routes from a YAML file",
	Long: `Import reads a YAML file of sites into the local database. Sites and
routes are matched by name, so importing the same file twice changes nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f, err := seed.LoadFile(args[0])
	if err != nil {
		return err
	}

	svc, closeFn, err := openLocal(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := seed.Apply(ctx, svc.DB, f)
	if err != nil {
		return err
	}
	// imported sites may already sit in the cache
	if svc.Cache != nil {
		for _, s := range f.Sites {
			if err := svc.Cache.Invalidate(ctx, database.SiteID(strings.TrimSpace(s.Name))); err != nil {
				logger.Warn("invalidate site cache", zap.String("site", s.Name), zap.Error(err))
			}
		}
	}
	logger.Info("import done", zap.String("file", args[0]),
		zap.Int("sites", res.Sites), zap.Int("pointers", res.Pointers), zap.Int("routes", res.Routes))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d sites, %d checkpoints, %d routes\n", res.Sites, res.Pointers, res.Routes)
	return nil
}
