package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/sitepatrol/internal/config"
	"github.com/jask/sitepatrol/internal/logging"
)

var (
	initForce     bool
	initAPIURL    string
	initRedisAddr string
	initDBPath    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
	// init must work before the file exists, so a missing file falls back
	// to the defaults here instead of failing like the other commands.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("SITEPATROL_CONFIG", configPath); err != nil {
				return err
			}
		}
		var err error
		if _, statErr := os.Stat(config.Path()); errors.Is(statErr, os.ErrNotExist) {
			cfg, err = config.Default()
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to the config file",
	Long: `Init writes the current settings (defaults, the existing file and
SITEPATROL_* env overrides) to the config file. Flags override single values.
The redis password is never written.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().StringVar(&initAPIURL, "api-url", "", "remote server base URL")
	configInitCmd.Flags().StringVar(&initRedisAddr, "redis-addr", "", "redis address for the site cache")
	configInitCmd.Flags().StringVar(&initDBPath, "db", "", "sqlite database path")
	configCmd.AddCommand(configInitCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.Path()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists; pass --force to overwrite", path)
	}

	out := cfg
	if cmd.Flags().Changed("api-url") {
		out.API.BaseURL = initAPIURL
	}
	if cmd.Flags().Changed("redis-addr") {
		out.Redis.Addr = initRedisAddr
	}
	if cmd.Flags().Changed("db") {
		out.Database.Path = initDBPath
	}
	if err := config.Save(out); err != nil {
		return err
	}
	logger.Info("config written", zap.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
