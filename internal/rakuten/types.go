package rakuten

// SearchResponse is the subset of the search API response that is used.
type SearchResponse struct {
	Count int           `json:"count"`
	Page  int           `json:"page"`
	Hits  int           `json:"hits"`
	Items []ItemWrapper `json:"Items"`
}

// ItemWrapper matches the API's {"Item": {...}} envelope.
type ItemWrapper struct {
	Item Item `json:"Item"`
}

// Item is a single product listing. Pointer fields distinguish a missing
// member from an empty one.
type Item struct {
	ItemName      *string `json:"itemName"`
	ItemPrice     int     `json:"itemPrice"`
	ShopName      *string `json:"shopName"`
	ReviewCount   int     `json:"reviewCount"`
	ReviewAverage float64 `json:"reviewAverage"`
	ItemURL       string  `json:"itemUrl"`
}
