package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const PriceNotAvailable = "Price not available."

const (
	AvailabilityInStock   = "1"
	AvailabilityNoPrice   = "0"
	AvailabilityNoPricing = "NO"
)

// Price is either an amount or the "Price not available." marker.
type Price struct {
	Amount    float64
	Available bool
}

func PriceOf(amount float64) Price {
	return Price{Amount: amount, Available: true}
}

func (p Price) String() string {
	if !p.Available {
		return PriceNotAvailable
	}
	return strconv.FormatFloat(p.Amount, 'f', -1, 64)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Available {
		return json.Marshal(PriceNotAvailable)
	}
	return json.Marshal(p.Amount)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != PriceNotAvailable {
			return fmt.Errorf("unexpected price marker %q", s)
		}
		*p = Price{}
		return nil
	}
	var amount float64
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("failed to decode price: %w", err)
	}
	*p = PriceOf(amount)
	return nil
}

// ProductRecord is one flattened product observation, the unit of persisted output.
type ProductRecord struct {
	StoreID       string          `json:"store_id"`
	DeliveryZip   string          `json:"delivery_zip"`
	Department    string          `json:"department_name"`
	Category      string          `json:"category_name"`
	SubCategory   string          `json:"sub_category_name"`
	Brand         string          `json:"brand"`
	ProductURL    string          `json:"product_url"`
	ItemID        string          `json:"item_id"`
	ModelNumber   string          `json:"model_number"`
	ProductName   string          `json:"product_name"`
	StoreSKU      string          `json:"store_sku"`
	Breadcrumbs   []string        `json:"breadcrumbs"`
	Availability  string          `json:"availability"`
	PriceRetail   Price           `json:"price_retail"`
	CurrentPrice  Price           `json:"current_price"`
	TotalReviews  json.RawMessage `json:"total_reviews"`
	AverageRating json.RawMessage `json:"average_rating"`
}

// Document is what one run appends to the output file.
type Document struct {
	Products []ProductRecord `json:"products"`
}
