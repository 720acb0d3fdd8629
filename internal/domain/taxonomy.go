package domain

import "fmt"

// TaxonomySelector describes one department/category slice of the catalog to scrape.
// StoreIDs[i] is paired with DeliveryZips[i].
type TaxonomySelector struct {
	Department   string   `mapstructure:"department" json:"department"`
	Category     string   `mapstructure:"category_name" json:"category_name"`
	SubCategory  string   `mapstructure:"sub_category_name" json:"sub_category_name"`
	Brands       []string `mapstructure:"brands" json:"brands"`
	StoreIDs     []string `mapstructure:"store_ids" json:"store_ids"`
	DeliveryZips []string `mapstructure:"delivery_zip" json:"delivery_zip"`
}

func (s TaxonomySelector) Validate() error {
	if s.Department == "" || s.Category == "" {
		return fmt.Errorf("selector must name a department and a category")
	}
	if len(s.StoreIDs) != len(s.DeliveryZips) {
		return fmt.Errorf("selector %s/%s has %d store ids but %d delivery zips",
			s.Department, s.Category, len(s.StoreIDs), len(s.DeliveryZips))
	}
	return nil
}

// NavigationEntry is one (brand, store, zip) combination under a matched category or sub-category.
type NavigationEntry struct {
	Department  string `json:"department_name"`
	Category    string `json:"category_name"`
	SubCategory string `json:"sub_category_name,omitempty"`
	Brand       string `json:"brand"`
	StoreID     string `json:"store_id"`
	DeliveryZip string `json:"delivery_zip"`
	URL         string `json:"url"` // Category or sub-category listing page
}

func (e NavigationEntry) String() string {
	path := e.Department + " > " + e.Category
	if e.SubCategory != "" {
		path += " > " + e.SubCategory
	}
	return fmt.Sprintf("%s [%s] store=%s zip=%s", path, e.Brand, e.StoreID, e.DeliveryZip)
}

// Metadata returns the taxonomy fields carried by every listing page and product of this entry.
func (e NavigationEntry) Metadata() ListingMetadata {
	return ListingMetadata{
		StoreID:     e.StoreID,
		DeliveryZip: e.DeliveryZip,
		Department:  e.Department,
		Category:    e.Category,
		SubCategory: e.SubCategory,
		Brand:       e.Brand,
	}
}

// ResolvedBrandEntry is a NavigationEntry with its brand listing located.
type ResolvedBrandEntry struct {
	NavigationEntry
	BrandURL string `json:"brand_url"`
	NavParam string `json:"nav_param"`
}
