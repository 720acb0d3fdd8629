package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homedepot/scraper/internal/config"
	"homedepot/scraper/internal/container"
	"homedepot/scraper/internal/report"
	"homedepot/scraper/internal/repository"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "scraper",
		Short:         "Scrapes the Home Depot catalog into data.json",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default ./config.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Scrape the configured taxonomy and append the products to the output file",
			RunE:  runScrape,
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the scraped data over HTTP",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "report",
			Short: "Print product counts per taxonomy group",
			RunE:  runReport,
		},
	)

	if err := root.Execute(); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.Debug("Configuration loaded successfully")
	return cfg, nil
}

func setup(ctx context.Context) (*container.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	app, err := container.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return app, nil
}

func runScrape(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, err := app.Run(ctx)
	if summary != nil {
		report.RenderSummary(os.Stdout, summary)
	}
	if err != nil {
		return err
	}

	// Validate the output against the site by grouping what is now on disk.
	docs, err := app.Store.Load(ctx)
	if err != nil {
		return err
	}
	report.Render(os.Stdout, report.GroupCounts(docs))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(app.Server.ListenAndServe)

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runReport only reads the output file, so it skips proxy probing and the database.
func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs, err := repository.NewFileRepository(cfg.Output.Path).Load(cmd.Context())
	if err != nil {
		return err
	}
	report.Render(os.Stdout, report.GroupCounts(docs))
	return nil
}
