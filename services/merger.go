package services

import (
	"strings"

	"usedcar-analyzer/models"
	"usedcar-analyzer/utils"
)

// Merger combines scraped listing sources with the reference model table
// into the normalized clean dataset.
type Merger struct {
	logger *utils.Logger
}

// NewMerger creates a Merger with the given logger.
func NewMerger(logger *utils.Logger) *Merger {
	return &Merger{logger: logger}
}

type listingKey struct {
	fullName  string
	year      int
	mileageKM float64
	price     int
	canonical string
}

// Merge concatenates all source tables, tags each row with a canonical model
// name by substring match against the reference table, parses the scraped
// text fields, joins the reference attributes, drops incomplete rows, and
// removes duplicates (first occurrence kept).
//
// Reference rows are scanned in input order and a later match overwrites an
// earlier one, so a full name containing several canonical names ends up
// with the last one listed.
func (m *Merger) Merge(sources [][]models.RawListing, reference []models.ReferenceModel) []models.NormalizedListing {
	var raw []models.RawListing
	for _, src := range sources {
		raw = append(raw, src...)
	}

	refByName := make(map[string]models.ReferenceModel, len(reference))
	for _, ref := range reference {
		refByName[ref.CanonicalName] = ref
	}

	seen := make(map[listingKey]struct{})
	result := make([]models.NormalizedListing, 0, len(raw))
	dropped, duplicates := 0, 0

	for _, r := range raw {
		canonical := ""
		for _, ref := range reference {
			if ref.CanonicalName != "" && strings.Contains(r.FullName, ref.CanonicalName) {
				canonical = ref.CanonicalName
			}
		}

		year, okYear := ParseYear(r.ModelYearText)
		mileage, okMileage := ParseMileage(r.MileageText)
		price, okPrice := ParsePrice(r.PriceText)

		if canonical == "" || !okYear || !okMileage || !okPrice {
			dropped++
			m.logger.Debug("[merger] Dropping incomplete row: %q", r.FullName)
			continue
		}

		ref := refByName[canonical]

		key := listingKey{r.FullName, year, mileage, price, canonical}
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}

		result = append(result, models.NormalizedListing{
			CanonicalName: canonical,
			FullName:      r.FullName,
			ModelYear:     year,
			MileageKM:     mileage,
			PriceManwon:   price,
			Brand:         ref.Brand,
			BodyType:      ref.BodyType,
			NewCarPrice:   ref.NewCarPrice,
		})
	}

	m.logger.Info("[merger] Merged %d raw rows → %d listings (dropped %d, deduplicated %d)",
		len(raw), len(result), dropped, duplicates)
	return result
}
