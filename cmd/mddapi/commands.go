package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/mddapi/bootstrap"
	"github.com/kbukum/mddapi/config"
	"github.com/kbukum/mddapi/database"
	"github.com/kbukum/mddapi/database/migration"
	"github.com/kbukum/mddapi/internal/app"
	"github.com/kbukum/mddapi/logger"
	"github.com/kbukum/mddapi/version"
)

const serviceName = "mddapi"

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "MDD API: accounts, themes, articles and comments",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configFile)
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config.yml")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), configFile)
			},
		},
		newMigrateCmd(&configFile),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				info := version.Get()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s, %s)\n",
					serviceName, info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
			},
		},
	)
	return root
}

func loadConfig(configFile string) (*app.Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	return config.Load[app.Config](serviceName, opts...)
}

func serve(ctx context.Context, configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	a, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	ac, err := app.New(cfg, a.Components, a.Logger)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	a.OnReady(func(context.Context) error {
		a.Logger.Info("Accepting requests", logger.Fields(
			"addr", ac.Server.Addr(),
			"revocation_backend", cfg.Revocation.Backend,
		))
		return nil
	})
	return a.Run(ctx)
}

// schemaConfig is the part of the service config the migrate commands read.
type schemaConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Database database.Config `yaml:"database" mapstructure:"database"`
}

func (c *schemaConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Database.ApplyDefaults()
	off := false
	c.Database.Migrate = &off
}

func (c *schemaConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

func newMigrateCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Args:  cobra.NoArgs,
	}

	run := func(apply func(db *database.DB, src migration.Source) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			var opts []config.LoaderOption
			if *configFile != "" {
				opts = append(opts, config.WithConfigFile(*configFile))
			}
			cfg, err := config.Load[schemaConfig](serviceName, opts...)
			if err != nil {
				return err
			}
			a, err := bootstrap.NewApp(cfg)
			if err != nil {
				return err
			}
			dbc := database.NewComponent(cfg.Database, a.Logger)
			if err := a.RegisterComponent(dbc); err != nil {
				return err
			}
			log := a.Logger.WithComponent("migrate")

			return a.RunTask(cmd.Context(), func(context.Context) error {
				src, err := migration.ForDriver(cfg.Database.Driver)
				if err != nil {
					return err
				}
				db := dbc.DB()
				if err := apply(db, src); err != nil {
					return err
				}
				v, dirty, err := migration.Version(db.GormDB, src)
				if err != nil {
					return err
				}
				log.Info("Schema version", logger.Fields("version", v, "dirty", dirty))
				return nil
			})
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  run(func(db *database.DB, src migration.Source) error { return migration.Up(db.GormDB, src) }),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE:  run(func(db *database.DB, src migration.Source) error { return migration.Down(db.GormDB, src) }),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE:  run(func(*database.DB, migration.Source) error { return nil }),
		},
	)
	return cmd
}
