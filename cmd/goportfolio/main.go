package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/m-zajac/goportfolio/internal/api/http"
	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/m-zajac/goportfolio/internal/icons"
	"github.com/m-zajac/goportfolio/internal/render"
	"github.com/m-zajac/goportfolio/internal/site"
)

var rootCmd = &cobra.Command{
	Use:   "goportfolio",
	Short: "Personal portfolio site with an admin dashboard",
	Long: `goportfolio serves a single page portfolio and an admin dashboard for managing
the project list. Projects can be imported and kept in sync with GitHub and GitLab repositories.

Configuration is read from environment variables and an optional .env file.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the http server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync imported projects with saved GitHub and GitLab credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write site config with current projects as yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(exportOutput)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, stdout if empty")

	rootCmd.AddCommand(serveCmd, syncCmd, exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (Config, *logrus.Logger, error) {
	_ = godotenv.Load()

	l := logrus.New()
	l.Level = logrus.InfoLevel

	var conf Config
	if err := envconfig.Process("", &conf); err != nil {
		return conf, l, fmt.Errorf("couldn't parse config: %w", err)
	}

	level, err := logrus.ParseLevel(conf.LogLevel)
	if err != nil {
		return conf, l, fmt.Errorf("invalid log level: %w", err)
	}
	l.Level = level

	return conf, l, nil
}

func runServe(ctx context.Context) error {
	conf, l, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := newComponents(conf, l)
	if err != nil {
		return err
	}
	defer c.Close()

	iconLookup, err := icons.NewLookup(conf.IconCacheSize)
	if err != nil {
		return fmt.Errorf("couldn't create icon lookup: %w", err)
	}
	renderer, err := render.New(iconLookup)
	if err != nil {
		return fmt.Errorf("couldn't create renderer: %w", err)
	}

	if conf.SyncInterval > 0 {
		scheduler, err := app.NewSyncScheduler(
			c.service,
			conf.SyncInterval,
			conf.SyncTimeout,
			l.WithField("component", "syncScheduler"),
		)
		if err != nil {
			return fmt.Errorf("couldn't create sync scheduler: %w", err)
		}
		scheduler.RunScheduler()
		defer scheduler.Close()
	}

	mux := http.NewMux(http.MuxConfig{
		Service:       c.service,
		Auth:          c.auth,
		Renderer:      renderer,
		Events:        c.hub,
		Metrics:       http.NewMetrics(conf.MetricsEnabled, c.hub.Subscribers),
		Site:          c.site,
		Timeout:       conf.RequestTimeout,
		SecureCookies: conf.SecureCookies,
	}, l.WithField("component", "mux"))
	server := http.NewServer(
		conf.HTTPServerAddress,
		conf.HTTPProfileServerAddress,
		mux,
		l.WithField("component", "httpServer"),
	)

	return server.Run(ctx)
}

func runSync(ctx context.Context) error {
	conf, l, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := newComponents(conf, l)
	if err != nil {
		return err
	}
	defer c.Close()

	creds, err := c.service.GitCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, conf.SyncTimeout)
	defer cancel()

	result, err := c.service.SyncAll(ctx, creds)
	if err != nil {
		return err
	}

	for provider, failure := range result.Failures {
		l.Warnf("%s: %v", provider.Title(), failure)
	}
	fmt.Printf("Synced %d projects from %d repositories\n", result.Updated, result.TotalFetched)

	return nil
}

func runExport(output string) error {
	conf, l, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := newComponents(conf, l)
	if err != nil {
		return err
	}
	defer c.Close()

	records, err := c.service.Records()
	if err != nil {
		return err
	}
	data, err := site.Export(c.site, records)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(output, data, 0o644)
}
