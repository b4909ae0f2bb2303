package service

// QuoteResponse is the stable output shape for a single quote. Attributes
// the upstream record does not carry stay nil and are omitted from the
// serialized response; they are never emitted as null or zero.
type QuoteResponse struct {
	Symbol           string   `json:"symbol"`
	Name             *string  `json:"name,omitempty"`
	Exchange         *string  `json:"exchange,omitempty"`
	Currency         *string  `json:"currency,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	Change           *float64 `json:"change,omitempty"`
	ChangePercent    *float64 `json:"changePercent,omitempty"`
	DayHigh          *float64 `json:"dayHigh,omitempty"`
	DayLow           *float64 `json:"dayLow,omitempty"`
	Volume           *int64   `json:"volume,omitempty"`
	PreviousClose    *float64 `json:"previousClose,omitempty"`
	MarketCap        *int64   `json:"marketCap,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fiftyTwoWeekLow,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh,omitempty"`
	TrailingPE       *float64 `json:"trailingPE,omitempty"`
	ForwardPE        *float64 `json:"forwardPE,omitempty"`
	DividendYield    *float64 `json:"dividendYield,omitempty"`
	EPS              *float64 `json:"eps,omitempty"`
	BookValue        *float64 `json:"bookValue,omitempty"`
	MarketState      *string  `json:"marketState,omitempty"`
	InstrumentType   *string  `json:"instrumentType,omitempty"`
}

// SearchResult is one matched instrument. All three attributes are required;
// upstream matches missing any of them are excluded, not partially emitted.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// HistoricalPoint is one complete trading day. Close, high, and low are
// rounded to 2 decimal places.
type HistoricalPoint struct {
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume int64   `json:"volume"`
}

// HistoricalResponse wraps a historical series.
type HistoricalResponse struct {
	ClosingPrices []HistoricalPoint `json:"closingPrices"`
}
