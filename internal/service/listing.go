package service

import (
	"context"

	"homedepot/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// PageCount returns how many search pages cover total results.
func PageCount(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// StartIndex returns the first product offset of a zero-based page.
func StartIndex(page, perPage int) int {
	return perPage*(page+1) - perPage
}

// fetchListing reads the brand's result count and requests every search page for it.
// Any failing page fails the whole entry.
func (s *Service) fetchListing(ctx context.Context, entry domain.ResolvedBrandEntry) ([]domain.ListingPage, error) {
	total, err := s.client.GetResultCount(ctx, entry.BrandURL)
	if err != nil {
		return nil, err
	}

	pageCount := PageCount(total, s.productsPerPage)
	metadata := entry.Metadata()
	pages := make([]domain.ListingPage, 0, pageCount)

	for page := 0; page < pageCount; page++ {
		startIndex := StartIndex(page, s.productsPerPage)
		log.Infof("🔄 IN PROGRESS: %s page %d/%d", entry.NavigationEntry, page+1, pageCount)

		response, err := s.client.SearchProducts(ctx, entry, startIndex)
		if err != nil {
			return nil, err
		}

		pages = append(pages, domain.ListingPage{
			Metadata:   metadata,
			Page:       page,
			StartIndex: startIndex,
			Response:   *response,
		})
	}

	return pages, nil
}
