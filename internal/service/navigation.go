package service

import (
	"homedepot/scraper/internal/client"
	"homedepot/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ResolveNavigation matches every selector against the navigation document and emits one
// entry per (brand, store/zip pair). The first department, category and sub-category whose
// name matches wins; a selector that matches nothing, or is invalid, yields no entries.
func ResolveNavigation(nav *domain.NavigationDocument, selectors []domain.TaxonomySelector, baseURL string) []domain.NavigationEntry {
	var entries []domain.NavigationEntry
	if nav == nil {
		return entries
	}

	for _, selector := range selectors {
		if err := selector.Validate(); err != nil {
			log.Warnf("⚠️ Skipping selector: %v", err)
			continue
		}

		listingURL, ok := findListingURL(nav, selector)
		if !ok {
			continue
		}
		listingURL = client.AbsoluteURL(baseURL, listingURL)

		for _, brand := range selector.Brands {
			for i, storeID := range selector.StoreIDs {
				entries = append(entries, domain.NavigationEntry{
					Department:  selector.Department,
					Category:    selector.Category,
					SubCategory: selector.SubCategory,
					Brand:       brand,
					StoreID:     storeID,
					DeliveryZip: selector.DeliveryZips[i],
					URL:         listingURL,
				})
			}
		}
	}

	return entries
}

func findListingURL(nav *domain.NavigationDocument, selector domain.TaxonomySelector) (string, bool) {
	department, ok := findDepartment(nav.Header.PrimaryNavigation, selector.Department)
	if !ok {
		return "", false
	}

	category, ok := findCategory(department.Categories, selector.Category)
	if !ok {
		return "", false
	}

	if selector.SubCategory == "" {
		return category.URL, true
	}

	subCategory, ok := findCategory(category.SubCategories, selector.SubCategory)
	if !ok {
		return "", false
	}
	return subCategory.URL, true
}

func findDepartment(departments []domain.NavigationDepartment, title string) (domain.NavigationDepartment, bool) {
	for _, d := range departments {
		if d.Title == title {
			return d, true
		}
	}
	return domain.NavigationDepartment{}, false
}

func findCategory(categories []domain.NavigationCategory, name string) (domain.NavigationCategory, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return domain.NavigationCategory{}, false
}
