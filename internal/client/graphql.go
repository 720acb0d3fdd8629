package client

import (
	_ "embed"
)

const searchModelOperation = "searchModel"

//go:embed queries/search_model.graphql
var searchModelQuery string

// GraphQLRequest is the body posted to the federation gateway.
type GraphQLRequest struct {
	OperationName string `json:"operationName"`
	Variables     any    `json:"variables"`
	Query         string `json:"query"`
}

type SearchModelVariables struct {
	SkipInstallServices    bool                   `json:"skipInstallServices"`
	SkipKPF                bool                   `json:"skipKPF"`
	SkipSpecificationGroup bool                   `json:"skipSpecificationGroup"`
	StoreFilter            string                 `json:"storefilter"`
	Channel                string                 `json:"channel"`
	AdditionalSearchParams AdditionalSearchParams `json:"additionalSearchParams"`
	Filter                 map[string]any         `json:"filter"`
	NavParam               string                 `json:"navParam"`
	OrderBy                OrderBy                `json:"orderBy"`
	PageSize               int                    `json:"pageSize"`
	StartIndex             int                    `json:"startIndex"`
	StoreID                string                 `json:"storeId"`
}

type AdditionalSearchParams struct {
	DeliveryZip string `json:"deliveryZip"`
}

type OrderBy struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// NewSearchModelRequest builds one listing page query; only the store, zip, nav param and
// start index vary between calls.
func NewSearchModelRequest(storeID, deliveryZip, navParam string, startIndex, pageSize int) GraphQLRequest {
	return GraphQLRequest{
		OperationName: searchModelOperation,
		Variables: SearchModelVariables{
			StoreFilter:            "ALL",
			Channel:                "DESKTOP",
			AdditionalSearchParams: AdditionalSearchParams{DeliveryZip: deliveryZip},
			Filter:                 map[string]any{},
			NavParam:               navParam,
			OrderBy:                OrderBy{Field: "TOP_SELLERS", Order: "ASC"},
			PageSize:               pageSize,
			StartIndex:             startIndex,
			StoreID:                storeID,
		},
		Query: searchModelQuery,
	}
}
