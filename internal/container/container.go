package container

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"homedepot/scraper/internal/client"
	"homedepot/scraper/internal/config"
	"homedepot/scraper/internal/domain"
	"homedepot/scraper/internal/proxy"
	"homedepot/scraper/internal/repository"
	"homedepot/scraper/internal/server"
	"homedepot/scraper/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.HomeDepotClient
	Store      *repository.FileRepository
	Repository repository.ProductRepository
	Service    *service.Service
	Server     *server.Server

	db *pgxpool.Pool
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Store:  repository.NewFileRepository(cfg.Output.Path),
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.HTTP.Proxies, cfg.Site.BaseURL)
	if len(cfg.HTTP.Proxies) > 0 && proxySupplier.Len() == 0 {
		log.Warn("⚠️ No working proxies, requests go out directly")
	}
	container.Client = client.NewHomeDepotClient(cfg.Site, cfg.HTTP, proxySupplier)

	repositories := []repository.ProductRepository{container.Store}
	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		container.db = db
		repositories = append(repositories, repository.NewPostgresRepository(db))
		log.Info("✅ Connected to postgres successfully")
	}
	container.Repository = repository.NewMultiRepository(repositories...)

	container.Service = service.NewService(
		container.Client,
		container.Repository,
		cfg.Navigation,
		cfg.Site.BaseURL,
		cfg.Site.ProductsPerPage,
	)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	container.Server = server.New(addr, container.Store)

	return container, nil
}

// Run executes one scrape
func (c *Container) Run(ctx context.Context) (*domain.RunSummary, error) {
	return c.Service.Run(ctx)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	return c.Client.Close()
}
