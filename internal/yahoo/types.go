package yahoo

// QuoteRecord captures the subset of a Yahoo quote record the service reads.
// Every field other than Symbol is optional upstream; absent values stay nil
// and are never forwarded as zeros.
type QuoteRecord struct {
	Symbol                      string   `json:"symbol"`
	ShortName                   *string  `json:"shortName,omitempty"`
	LongName                    *string  `json:"longName,omitempty"`
	FullExchangeName            *string  `json:"fullExchangeName,omitempty"`
	Currency                    *string  `json:"currency,omitempty"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice,omitempty"`
	RegularMarketChange         *float64 `json:"regularMarketChange,omitempty"`
	RegularMarketChangePercent  *float64 `json:"regularMarketChangePercent,omitempty"`
	RegularMarketDayHigh        *float64 `json:"regularMarketDayHigh,omitempty"`
	RegularMarketDayLow         *float64 `json:"regularMarketDayLow,omitempty"`
	RegularMarketVolume         *int64   `json:"regularMarketVolume,omitempty"`
	RegularMarketPreviousClose  *float64 `json:"regularMarketPreviousClose,omitempty"`
	MarketCap                   *int64   `json:"marketCap,omitempty"`
	FiftyTwoWeekLow             *float64 `json:"fiftyTwoWeekLow,omitempty"`
	FiftyTwoWeekHigh            *float64 `json:"fiftyTwoWeekHigh,omitempty"`
	TrailingPE                  *float64 `json:"trailingPE,omitempty"`
	ForwardPE                   *float64 `json:"forwardPE,omitempty"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield,omitempty"`
	EpsTrailingTwelveMonths     *float64 `json:"epsTrailingTwelveMonths,omitempty"`
	BookValue                   *float64 `json:"bookValue,omitempty"`
	MarketState                 *string  `json:"marketState,omitempty"`
	QuoteType                   *string  `json:"quoteType,omitempty"`
}

// SearchMatch is one instrument match from the search endpoint. Yahoo uses
// lowercase field names here, unlike the quote endpoint.
type SearchMatch struct {
	Symbol    string  `json:"symbol"`
	ShortName *string `json:"shortname,omitempty"`
	LongName  *string `json:"longname,omitempty"`
	Exchange  string  `json:"exchange"`
	QuoteType string  `json:"quoteType"`
}

// ChartSeries holds the daily bars of one chart response as parallel arrays,
// the way the upstream API ships them. Entries are nil for days the upstream
// has no value.
type ChartSeries struct {
	Timestamps []int64
	Close      []*float64
	High       []*float64
	Low        []*float64
	Volume     []*int64
}

// Len returns the number of timestamps in the series.
func (s *ChartSeries) Len() int {
	return len(s.Timestamps)
}
