package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"homedepot/scraper/internal/config"
	"homedepot/scraper/internal/domain"
	"homedepot/scraper/internal/proxy"

	log "github.com/sirupsen/logrus"
)

type HomeDepotClient interface {
	GetNavigation(ctx context.Context) (*domain.NavigationDocument, error)
	GetBrandURL(ctx context.Context, entry domain.NavigationEntry) (string, error)
	GetResultCount(ctx context.Context, listingURL string) (int, error)
	SearchProducts(ctx context.Context, entry domain.ResolvedBrandEntry, startIndex int) (*domain.SearchResponse, error)
	Close() error
}

type homeDepotClient struct {
	site      config.SiteConfig
	baseURL   string
	transport *transport
	parser    *pageParser
}

func NewHomeDepotClient(site config.SiteConfig, httpCfg config.HTTPConfig, proxySupplier proxy.ProxySupplier) HomeDepotClient {
	return &homeDepotClient{
		site:      site,
		baseURL:   strings.TrimRight(site.BaseURL, "/"),
		transport: newTransport(httpCfg, site, proxySupplier),
		parser:    newPageParser(site.BaseURL),
	}
}

func (c *homeDepotClient) GetNavigation(ctx context.Context) (*domain.NavigationDocument, error) {
	navURL := AbsoluteURL(c.baseURL, c.site.NavigationPath)

	var doc domain.NavigationDocument
	if err := c.transport.getJSON(ctx, navURL, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch navigation: %w", err)
	}

	log.Debugf("Fetched navigation with %d departments", len(doc.Header.PrimaryNavigation))
	return &doc, nil
}

func (c *homeDepotClient) GetBrandURL(ctx context.Context, entry domain.NavigationEntry) (string, error) {
	html, err := c.transport.getHTML(ctx, entry.URL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch HTML for listing page: %w", err)
	}

	brandURL, err := c.parser.ExtractBrandURL(html, entry.Brand, entry.URL)
	if err != nil {
		return "", err
	}

	log.Debugf("Found brand %s at %s", entry.Brand, brandURL)
	return brandURL, nil
}

func (c *homeDepotClient) GetResultCount(ctx context.Context, listingURL string) (int, error) {
	html, err := c.transport.getHTML(ctx, listingURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch HTML for brand listing: %w", err)
	}

	total, err := c.parser.ExtractResultCount(html)
	if err != nil {
		return 0, fmt.Errorf("failed to read result count from %s: %w", listingURL, err)
	}
	return total, nil
}

func (c *homeDepotClient) SearchProducts(ctx context.Context, entry domain.ResolvedBrandEntry, startIndex int) (*domain.SearchResponse, error) {
	searchURL := AbsoluteURL(c.baseURL, c.site.SearchPath)
	request := NewSearchModelRequest(entry.StoreID, entry.DeliveryZip, entry.NavParam, startIndex, c.site.ProductsPerPage)

	var response domain.SearchResponse
	err := c.transport.postJSON(ctx, searchURL,
		map[string]string{"opname": searchModelOperation},
		c.searchHeaders(entry.BrandURL),
		request,
		&response,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %s at index %d: %w", entry.NavParam, startIndex, err)
	}

	if len(response.Errors) > 0 || response.Data.SearchModel == nil {
		messages := make([]string, 0, len(response.Errors))
		for _, gqlErr := range response.Errors {
			messages = append(messages, gqlErr.Message)
		}
		log.Warnf("⚠️ GraphQL errors for nav param %s at index %d: %v", entry.NavParam, startIndex, messages)
		return nil, fmt.Errorf("%w: nav param %s at index %d: %s",
			domain.ErrSearchFailed, entry.NavParam, startIndex, strings.Join(messages, "; "))
	}
	return &response, nil
}

// searchHeaders returns the configured header set with the referer pointing at the brand listing.
func (c *homeDepotClient) searchHeaders(referer string) map[string]string {
	headers := make(map[string]string, len(c.site.SearchHeaders)+3)
	for key, value := range c.site.SearchHeaders {
		headers[key] = value
	}
	headers["origin"] = c.baseURL
	headers["referer"] = referer
	if u, err := url.Parse(referer); err == nil {
		headers["x-current-url"] = u.Path
	}
	return headers
}

func (c *homeDepotClient) Close() error {
	return c.transport.close()
}
