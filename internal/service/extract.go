package service

import (
	"encoding/json"

	"homedepot/scraper/internal/client"
	"homedepot/scraper/internal/domain"
)

// emptyValue is what the review fields hold when the product carries no ratings.
func emptyValue() json.RawMessage {
	return json.RawMessage(`""`)
}

// ExtractProducts flattens every product of every page into a ProductRecord.
func ExtractProducts(pages []domain.ListingPage, baseURL string) []domain.ProductRecord {
	products := make([]domain.ProductRecord, 0)
	for _, page := range pages {
		model := page.Response.Data.SearchModel
		if model == nil {
			continue
		}
		for _, product := range model.Products {
			products = append(products, newProductRecord(page.Metadata, product, baseURL))
		}
	}
	return products
}

func newProductRecord(metadata domain.ListingMetadata, product domain.SearchProduct, baseURL string) domain.ProductRecord {
	record := domain.ProductRecord{
		StoreID:       metadata.StoreID,
		DeliveryZip:   metadata.DeliveryZip,
		Department:    metadata.Department,
		Category:      metadata.Category,
		SubCategory:   metadata.SubCategory,
		Brand:         metadata.Brand,
		TotalReviews:  emptyValue(),
		AverageRating: emptyValue(),
	}

	if ids := product.Identifiers; ids != nil {
		record.Brand = ids.BrandName
		record.ProductURL = client.AbsoluteURL(baseURL, ids.CanonicalURL)
		record.ItemID = ids.ItemID
		record.ModelNumber = ids.ModelNumber
		record.ProductName = ids.ProductLabel
		record.StoreSKU = ids.StoreSkuNumber
	}

	if info := product.Info; info != nil {
		record.Breadcrumbs = info.CategoryHierarchy
		record.Availability = domain.AvailabilityInStock
	}

	if pricing := product.Pricing; pricing != nil {
		if pricing.Original != nil {
			record.PriceRetail = domain.PriceOf(*pricing.Original)
		} else {
			record.Availability = domain.AvailabilityNoPrice
		}
		if pricing.Value != nil {
			record.CurrentPrice = domain.PriceOf(*pricing.Value)
		} else {
			record.Availability = domain.AvailabilityNoPrice
		}
	} else {
		record.Availability = domain.AvailabilityNoPricing
	}

	if reviews := product.Reviews; reviews != nil && reviews.RatingsReviews != nil {
		if v := reviews.RatingsReviews.TotalReviews; len(v) > 0 {
			record.TotalReviews = v
		}
		if v := reviews.RatingsReviews.AverageRating; len(v) > 0 {
			record.AverageRating = v
		}
	}

	return record
}
