// Package cli defines the caucusdesk command tree.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/caucusdesk/caucusdesk/pkg/config"
	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
	"github.com/caucusdesk/caucusdesk/pkg/server"
	"github.com/caucusdesk/caucusdesk/pkg/store/postgres"
	"github.com/caucusdesk/caucusdesk/pkg/version"
)

const serviceName = "caucusdesk"

// NewRootCommand builds the root command with its subcommands.
func NewRootCommand() *cobra.Command {
	var configFile string
	var envPrefix string

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Admin dashboard for the organization's records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(root.PersistentFlags(), &configFile, &envPrefix)

	loadConfig := func() (*config.Config, error) {
		return config.NewViperLoader(configFile, envPrefix).Load()
	}

	root.AddCommand(
		newServeCommand(loadConfig),
		newMigrateCommand(loadConfig),
		newConfigCommand(loadConfig),
		newHealthcheckCommand(loadConfig),
		newVersionCommand(),
	)

	return root
}

func addGlobalFlags(flags *pflag.FlagSet, configFile, envPrefix *string) {
	flags.StringVarP(configFile, "config", "c", "", "path to configuration file")
	flags.StringVar(envPrefix, "env-prefix", "CAUCUSDESK", "environment variable prefix")
}

func newServeCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			log.Info("starting service",
				"service", cfg.Service.Name,
				"environment", cfg.Service.Environment,
				"version", version.Current(cfg.Service.Name).Version,
			)

			app, err := server.NewApp(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx)
		},
	}
}

func newMigrateCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, revert, or inspect record store schema migrations",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) > 0 {
				direction = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			store, err := postgres.NewAdapter(postgres.Config{
				URL:             cfg.Database.URL,
				MaxOpenConns:    1,
				MaxIdleConns:    1,
				ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
				ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			}, log)
			if err != nil {
				return err
			}
			defer store.Close()

			manager, err := store.MigrationManager()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			switch direction {
			case "up":
				applied, err := manager.Up(ctx)
				if err != nil {
					return err
				}
				log.Info("migrations applied", "count", applied)
			case "down":
				reverted, err := manager.Down(ctx, steps)
				if err != nil {
					return err
				}
				log.Info("migrations reverted", "count", reverted)
			case "status":
				status, err := manager.Status(ctx)
				if err != nil {
					return err
				}
				log.Info("migration status",
					"applied", len(status.AppliedVersions),
					"pending", len(status.Pending),
				)
				for _, pending := range status.Pending {
					log.Info("migration pending", "version", pending.Version, "name", pending.Name)
				}
			default:
				return fmt.Errorf("unknown migrate subcommand: %s", direction)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert with down")
	return cmd
}

func newConfigCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			redacted := *cfg
			if redacted.Auth.Secret != "" {
				redacted.Auth.Secret = "[redacted]"
			}
			if redacted.Database.URL != "" {
				redacted.Database.URL = "[redacted]"
			}

			out, err := yaml.Marshal(redacted)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			cmd.Print(string(out))
			return nil
		},
	})

	return configCmd
}

func newHealthcheckCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "healthcheck",
		Short: "Check the running server's readiness endpoint and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			url := fmt.Sprintf("http://127.0.0.1:%d/readyz", cfg.HTTP.Port)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("readiness check failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("readiness check returned %s", resp.Status)
			}

			cmd.Println("readiness: ok")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.Current(serviceName).String())
		},
	}
}

func buildLogger(cfg *config.Config) (*logger.ZapLogger, error) {
	level, err := logger.ParseLogLevel(cfg.Observability.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Observability.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.NewZapLogger(logger.Config{Level: level, Format: format})
}

// Execute runs the root command with a signal-aware context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}
