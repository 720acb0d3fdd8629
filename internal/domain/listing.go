package domain

import "encoding/json"

type ListingMetadata struct {
	StoreID     string `json:"store_id"`
	DeliveryZip string `json:"delivery_zip"`
	Department  string `json:"department_name"`
	Category    string `json:"category_name"`
	SubCategory string `json:"sub_category_name"`
	Brand       string `json:"brand"`
}

// ListingPage is one product-search response page tagged with the taxonomy it was fetched for.
type ListingPage struct {
	Metadata   ListingMetadata `json:"metadata"`
	Page       int             `json:"page"`        // Zero-based
	StartIndex int             `json:"start_index"` // First product offset requested
	Response   SearchResponse  `json:"response"`
}

type SearchResponse struct {
	Data struct {
		SearchModel *SearchModel `json:"searchModel"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

type SearchModel struct {
	Products []SearchProduct `json:"products"`
}

// SearchProduct keeps every optional sub-object as a pointer so presence can be checked.
type SearchProduct struct {
	Identifiers *ProductIdentifiers `json:"identifiers"`
	Info        *ProductInfo        `json:"info"`
	Pricing     *ProductPricing     `json:"pricing"`
	Reviews     *ProductReviews     `json:"reviews"`
}

type ProductIdentifiers struct {
	BrandName      string `json:"brandName"`
	CanonicalURL   string `json:"canonicalUrl"`
	ItemID         string `json:"itemId"`
	ModelNumber    string `json:"modelNumber"`
	ProductLabel   string `json:"productLabel"`
	StoreSkuNumber string `json:"storeSkuNumber"`
}

type ProductInfo struct {
	CategoryHierarchy []string `json:"categoryHierarchy"`
}

type ProductPricing struct {
	Original *float64 `json:"original"`
	Value    *float64 `json:"value"`
}

type ProductReviews struct {
	RatingsReviews *RatingsReviews `json:"ratingsReviews"`
}

// RatingsReviews values are kept verbatim; the API has served them both as strings and numbers.
type RatingsReviews struct {
	AverageRating json.RawMessage `json:"averageRating"`
	TotalReviews  json.RawMessage `json:"totalReviews"`
}
