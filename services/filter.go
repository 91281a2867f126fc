package services

import (
	"strings"

	"usedcar-analyzer/models"
)

// FilterAll is the sentinel value for Brand/BodyType meaning "no filter".
// The dashboard sends it for the default dropdown selection.
const FilterAll = "ALL"

// Criteria is a set of AND-composed predicates over the clean dataset.
// Brand and BodyType are exact matches after trimming; "" and FilterAll
// impose no constraint. Bounds are inclusive and held as pointers so an
// explicit zero still applies — nil means unset, not zero.
type Criteria struct {
	Brand      string
	BodyType   string
	YearMin    *int
	YearMax    *int
	PriceMin   *int
	PriceMax   *int
	MileageMin *float64
	MileageMax *float64
}

// FilterListings returns the rows of data matching every predicate of c.
// The input is never mutated; the result is a fresh slice.
func FilterListings(data []models.NormalizedListing, c Criteria) []models.NormalizedListing {
	brand := strings.TrimSpace(c.Brand)
	bodyType := strings.TrimSpace(c.BodyType)

	out := make([]models.NormalizedListing, 0, len(data))
	for _, row := range data {
		if brand != "" && brand != FilterAll && strings.TrimSpace(row.Brand) != brand {
			continue
		}
		if bodyType != "" && bodyType != FilterAll && strings.TrimSpace(row.BodyType) != bodyType {
			continue
		}
		if c.YearMin != nil && row.ModelYear < *c.YearMin {
			continue
		}
		if c.YearMax != nil && row.ModelYear > *c.YearMax {
			continue
		}
		if c.PriceMin != nil && row.PriceManwon < *c.PriceMin {
			continue
		}
		if c.PriceMax != nil && row.PriceManwon > *c.PriceMax {
			continue
		}
		if c.MileageMin != nil && row.MileageKM < *c.MileageMin {
			continue
		}
		if c.MileageMax != nil && row.MileageKM > *c.MileageMax {
			continue
		}
		out = append(out, row)
	}
	return out
}
