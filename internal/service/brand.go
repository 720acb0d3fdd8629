package service

import (
	"context"

	"homedepot/scraper/internal/client"
	"homedepot/scraper/internal/domain"
)

// resolveBrand locates the brand's own listing page and its nav param.
func (s *Service) resolveBrand(ctx context.Context, entry domain.NavigationEntry) (domain.ResolvedBrandEntry, error) {
	brandURL, err := s.client.GetBrandURL(ctx, entry)
	if err != nil {
		return domain.ResolvedBrandEntry{}, err
	}

	navParam, err := client.ParseNavParam(brandURL)
	if err != nil {
		return domain.ResolvedBrandEntry{}, err
	}

	return domain.ResolvedBrandEntry{
		NavigationEntry: entry,
		BrandURL:        brandURL,
		NavParam:        navParam,
	}, nil
}
