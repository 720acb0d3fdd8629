package client

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"homedepot/scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const (
	brandNavSelector     = `div[class="EtchCustomNavigation etch-analytics"] li[class="list__item--padding-none"] a[href]`
	brandGridSelector    = `div.grid-column.recursive-content a[href]`
	resultCountSelector  = `span.results-applied__label`
	navParamMarker       = "N-"
	secureSupportedToken = "SECURE_SUPPORTED/"
)

var resultCountRegex = regexp.MustCompile(`\d[\d,]*`)

type pageParser struct {
	baseURL string
}

func newPageParser(baseURL string) *pageParser {
	return &pageParser{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ExtractBrandURL locates the brand's listing link on a category page. The brand refinement
// panel is tried first; only when it carries no link text is the content grid searched for an
// href containing the brand name.
func (p *pageParser) ExtractBrandURL(html, brand, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var names, hrefs []string
	doc.Find(brandNavSelector).Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		if name == "" {
			return
		}
		names = append(names, name)
		hrefs = append(hrefs, a.AttrOr("href", ""))
	})

	var href string
	if len(names) == 0 {
		log.Debugf("No brand panel on %s, searching content grid for %q", pageURL, brand)
		doc.Find(brandGridSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			candidate := a.AttrOr("href", "")
			if strings.Contains(candidate, brand) {
				href = candidate
				return false
			}
			return true
		})
	} else if idx := slices.Index(names, brand); idx >= 0 {
		href = hrefs[idx]
	}

	if href == "" {
		return "", &domain.BrandNotFoundError{Brand: brand, URL: pageURL}
	}

	return AbsoluteURL(p.baseURL, href), nil
}

// ExtractResultCount reads the total number of results shown on a brand listing page.
func (p *pageParser) ExtractResultCount(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	label := doc.Find(resultCountSelector).First()
	if label.Length() == 0 {
		return 0, domain.ErrResultCountNotFound
	}

	match := resultCountRegex.FindString(label.Text())
	if match == "" {
		return 0, fmt.Errorf("%w: label %q", domain.ErrResultCountNotFound, strings.TrimSpace(label.Text()))
	}

	total, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrResultCountNotFound, err)
	}
	return total, nil
}

// ParseNavParam returns the token after the last "N-" in the URL's final path segment,
// e.g. /b/Appliances-Dishwashers/LG/N-5yc1vZc3poZ8p -> 5yc1vZc3poZ8p.
func ParseNavParam(brandURL string) (string, error) {
	path := brandURL
	if u, err := url.Parse(brandURL); err == nil {
		path = u.Path
	}

	segment := path[strings.LastIndex(path, "/")+1:]
	idx := strings.LastIndex(segment, navParamMarker)
	if idx < 0 || idx+len(navParamMarker) == len(segment) {
		return "", fmt.Errorf("%w: %s", domain.ErrNavParamNotFound, brandURL)
	}
	return segment[idx+len(navParamMarker):], nil
}

// AbsoluteURL resolves a site-relative link against the site root, dropping the
// SECURE_SUPPORTED/ segment the navigation feed prefixes some links with.
func AbsoluteURL(baseURL, ref string) string {
	if ref == "" {
		return baseURL
	}
	ref = strings.Replace(ref, secureSupportedToken, "", 1)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(ref, "/")
}
