package service

import (
	"context"
	"fmt"

	"homedepot/scraper/internal/client"
	"homedepot/scraper/internal/domain"
	"homedepot/scraper/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	client          client.HomeDepotClient
	repository      repository.ProductRepository
	selectors       []domain.TaxonomySelector
	baseURL         string
	productsPerPage int
}

func NewService(
	client client.HomeDepotClient,
	repository repository.ProductRepository,
	selectors []domain.TaxonomySelector,
	baseURL string,
	productsPerPage int,
) *Service {
	return &Service{
		client:          client,
		repository:      repository,
		selectors:       selectors,
		baseURL:         baseURL,
		productsPerPage: productsPerPage,
	}
}

// Run scrapes every configured selector once and appends the products to the repository.
// Entries that fail are skipped and reported in the summary; only a navigation or
// persistence failure aborts the run.
func (s *Service) Run(ctx context.Context) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{RunID: uuid.NewString()}
	logger := log.WithField("run_id", summary.RunID)

	logger.Info("🚀 Scraping a new dataset...")

	nav, err := s.client.GetNavigation(ctx)
	if err != nil {
		return summary, err
	}

	entries := ResolveNavigation(nav, s.selectors, s.baseURL)
	summary.Entries = len(entries)
	logger.Infof("🧭 Resolved %d navigation entries from %d selectors", len(entries), len(s.selectors))

	resolved := make([]domain.ResolvedBrandEntry, 0, len(entries))
	for _, entry := range entries {
		brandEntry, err := s.resolveBrand(ctx, entry)
		if err != nil {
			if ctx.Err() != nil {
				return summary, fmt.Errorf("run cancelled: %w", ctx.Err())
			}
			logger.Errorf("❌ Failed to resolve brand for %s: %v", entry, err)
			summary.Failures = append(summary.Failures, domain.EntryFailure{Entry: entry, Stage: domain.StageBrand, Err: err})
			continue
		}
		resolved = append(resolved, brandEntry)
	}
	summary.Resolved = len(resolved)

	var pages []domain.ListingPage
	for _, entry := range resolved {
		entryPages, err := s.fetchListing(ctx, entry)
		if err != nil {
			if ctx.Err() != nil {
				return summary, fmt.Errorf("run cancelled: %w", ctx.Err())
			}
			logger.Errorf("❌ Failed to fetch listing for %s: %v", entry.NavigationEntry, err)
			summary.Failures = append(summary.Failures, domain.EntryFailure{Entry: entry.NavigationEntry, Stage: domain.StageListing, Err: err})
			continue
		}
		pages = append(pages, entryPages...)
	}
	summary.Pages = len(pages)

	products := ExtractProducts(pages, s.baseURL)
	summary.Products = len(products)

	if err := s.repository.SaveProducts(ctx, summary.RunID, products); err != nil {
		return summary, fmt.Errorf("failed to save products: %w", err)
	}

	logger.Infof("✅ Data has been scraped: %d products from %d pages, %d failed entries",
		summary.Products, summary.Pages, len(summary.Failures))
	return summary, nil
}
