package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/sitepatrol/internal/api"
	"github.com/jask/sitepatrol/internal/cache"
	"github.com/jask/sitepatrol/internal/config"
	"github.com/jask/sitepatrol/internal/database"
	"github.com/jask/sitepatrol/internal/logging"
	"github.com/jask/sitepatrol/internal/patrol"
	"github.com/jask/sitepatrol/internal/service"
	"github.com/jask/sitepatrol/internal/tui"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sitepatrol",
	Short: "Plan patrol routes for guarded sites",
	Long: `sitepatrol keeps the checkpoints of each guarded site and the patrol
routes that visit them in order.

Run without arguments to open the console. Set api.base_url to edit routes
on a remote server instead of the local database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("SITEPATROL_CONFIG", configPath); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		// the console owns the terminal, so it always logs to a file
		if cmd == cmd.Root() && cfg.Log.File == "" {
			cfg.Log.File = filepath.Join(filepath.Dir(cfg.Database.Path), "sitepatrol.log")
		}
		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runConsole,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/sitepatrol/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, importCmd, sitesCmd, routesCmd, routeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	backend, closeFn, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	p := tea.NewProgram(tui.New(ctx, backend, cfg.UI, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// openBackend returns the remote client when api.base_url is set and the
// local service otherwise.
func openBackend(ctx context.Context) (patrol.Backend, func(), error) {
	if cfg.API.BaseURL != "" {
		logger.Info("using remote backend", zap.String("base_url", cfg.API.BaseURL))
		client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
		return client, client.CloseIdleConnections, nil
	}
	svc, closeFn, err := openLocal(ctx)
	if err != nil {
		return nil, nil, err
	}
	return svc, closeFn, nil
}

// openLocal migrates and opens the sqlite database and attaches the redis
// cache when one is configured.
func openLocal(ctx context.Context) (*service.RouteService, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path, database.WithBusyTimeout(cfg.Database.BusyTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("seed defaults: %w", err)
	}

	svc := service.NewRouteService(db, logger)
	closers := []func() error{db.Close}

	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cache.WithTTL(cfg.Redis.TTL))
		if err := c.Ping(ctx); err != nil {
			// the database is enough on its own
			logger.Warn("site cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			svc.Cache = c
			closers = append(closers, c.Close)
		}
	}

	closeFn := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("close", zap.Error(err))
			}
		}
	}
	return svc, closeFn, nil
}
