package models

// RawListing holds one scraped row exactly as the crawler CSVs deliver it,
// before any parsing. Sources that lack a column deliver "" for it.
type RawListing struct {
	FullName      string
	ModelYearText string
	MileageText   string
	PriceText     string
}

// ReferenceModel is one row of the car reference table: the canonical model
// name plus the attributes joined onto every listing that matches it.
// Read-only for the lifetime of a pipeline run.
type ReferenceModel struct {
	Brand         string  `json:"brand"`
	CanonicalName string  `json:"canonical_name"`
	BodyType      string  `json:"body_type"`
	NewCarPrice   float64 `json:"new_car_price"`
}

// NormalizedListing is a surviving merged row: parsed, joined against the
// reference table and deduplicated. Rows whose year, mileage or price failed
// to parse, or that matched no canonical name, never become one.
// No two rows share (FullName, ModelYear, MileageKM, PriceManwon, CanonicalName).
type NormalizedListing struct {
	CanonicalName string  `json:"canonical_name"`
	FullName      string  `json:"full_name"`
	ModelYear     int     `json:"model_year"`
	MileageKM     float64 `json:"mileage_km"`
	PriceManwon   int     `json:"price_manwon"`
	Brand         string  `json:"brand"`
	BodyType      string  `json:"body_type"`
	NewCarPrice   float64 `json:"new_car_price"`
}

// ScoredListing is a NormalizedListing with its value-score breakdown.
// It is a transient view recomputed per population and is never persisted.
// Scored is false when the scorer had no population to normalize against,
// in which case every score field is zero.
type ScoredListing struct {
	NormalizedListing
	Scored          bool    `json:"scored"`
	PriceScore      float64 `json:"price_score"`
	AgeScore        float64 `json:"age_score"`
	MileageScore    float64 `json:"mileage_score"`
	PopularityScore float64 `json:"popularity_score"`
	ValueScore      float64 `json:"value_score"`
}

// YearlyTransactions is one row of a yearly transaction-count table, either
// the used-car market or the whole market.
type YearlyTransactions struct {
	Year              int   `json:"year"`
	TotalTransactions int64 `json:"total_transactions"`
}

// MarketSharePoint is one year of the used-market share series: the two
// transaction counts joined on year, the used/all ratio in percent, and the
// year-over-year change of the whole-market count. AllYoYPercent is nil for
// the first year of the series.
type MarketSharePoint struct {
	Year             int      `json:"year"`
	UsedTransactions int64    `json:"used_transactions"`
	AllTransactions  int64    `json:"all_transactions"`
	UsedRatioPercent float64  `json:"used_ratio_percent"`
	AllYoYPercent    *float64 `json:"all_yoy_percent,omitempty"`
}

// FAQEntry is one scraped FAQ record.
type FAQEntry struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Site     string `json:"site,omitempty"`
}

// AggregateRow is one group of an Aggregator result.
type AggregateRow struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// InsightReport holds the computed analytics over the clean dataset.
type InsightReport struct {
	TotalListings   int
	TotalModels     int
	AveragePrice    float64
	MinPrice        int
	MaxPrice        int
	BestValue       *ScoredListing
	TopValue        []*ScoredListing
	ListingsByBrand map[string]int
}
