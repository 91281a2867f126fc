package services

import (
	"usedcar-analyzer/models"
	"usedcar-analyzer/utils"
)

// Weights control how much each sub-score contributes to the composite
// value score. They must sum to 1.0.
type Weights struct {
	Price      float64
	Age        float64
	Mileage    float64
	Popularity float64
}

// DefaultWeights is the production weighting: price dominates, age and
// mileage share the rest, popularity is a tiebreaker.
var DefaultWeights = Weights{
	Price:      0.40,
	Age:        0.25,
	Mileage:    0.25,
	Popularity: 0.10,
}

// Scorer computes value scores for listings against a reference population.
type Scorer struct {
	weights Weights
	logger  *utils.Logger
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(weights Weights, logger *utils.Logger) *Scorer {
	return &Scorer{weights: weights, logger: logger}
}

type populationStats struct {
	minYear, maxYear       int
	minMileage, maxMileage float64
	counts                 map[string]int
	minCount, maxCount     int
}

// Score computes the four sub-scores and the 0–100 composite for every row.
// The population supplies the min/max bounds and popularity counts used to
// normalize; rows may be a filtered subset of it or equal to it. For a fixed
// population, Score is a pure function of rows.
//
// An empty population is a soft failure, not an error: the rows come back
// with Scored=false and zero scores so callers can degrade gracefully.
func (s *Scorer) Score(rows, population []models.NormalizedListing) []models.ScoredListing {
	out := make([]models.ScoredListing, 0, len(rows))

	if len(population) == 0 {
		s.logger.Warn("[scorer] Empty population — returning %d rows unscored", len(rows))
		for _, r := range rows {
			out = append(out, models.ScoredListing{NormalizedListing: r})
		}
		return out
	}

	stats := collectStats(population)

	for _, r := range rows {
		priceScore := 0.0
		if r.NewCarPrice > 0 {
			priceScore = 1 - clamp01(float64(r.PriceManwon)/r.NewCarPrice)
		}

		ageScore := 1.0
		if stats.maxYear > stats.minYear {
			ageScore = clamp01(float64(r.ModelYear-stats.minYear) / float64(stats.maxYear-stats.minYear))
		}

		mileageScore := 1.0
		if stats.maxMileage > stats.minMileage {
			mileageScore = clamp01(1 - (r.MileageKM-stats.minMileage)/(stats.maxMileage-stats.minMileage))
		}

		popularityScore := 1.0
		if stats.maxCount > stats.minCount {
			popularityScore = clamp01(float64(stats.counts[r.CanonicalName]-stats.minCount) /
				float64(stats.maxCount-stats.minCount))
		}

		valueScore := 100 * (s.weights.Price*priceScore +
			s.weights.Age*ageScore +
			s.weights.Mileage*mileageScore +
			s.weights.Popularity*popularityScore)

		out = append(out, models.ScoredListing{
			NormalizedListing: r,
			Scored:            true,
			PriceScore:        priceScore,
			AgeScore:          ageScore,
			MileageScore:      mileageScore,
			PopularityScore:   popularityScore,
			ValueScore:        valueScore,
		})
	}

	return out
}

func collectStats(population []models.NormalizedListing) populationStats {
	stats := populationStats{
		minYear:    population[0].ModelYear,
		maxYear:    population[0].ModelYear,
		minMileage: population[0].MileageKM,
		maxMileage: population[0].MileageKM,
		counts:     make(map[string]int),
	}

	for _, p := range population {
		if p.ModelYear < stats.minYear {
			stats.minYear = p.ModelYear
		}
		if p.ModelYear > stats.maxYear {
			stats.maxYear = p.ModelYear
		}
		if p.MileageKM < stats.minMileage {
			stats.minMileage = p.MileageKM
		}
		if p.MileageKM > stats.maxMileage {
			stats.maxMileage = p.MileageKM
		}
		stats.counts[p.CanonicalName]++
	}

	first := true
	for _, n := range stats.counts {
		if first || n < stats.minCount {
			stats.minCount = n
		}
		if first || n > stats.maxCount {
			stats.maxCount = n
		}
		first = false
	}

	return stats
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
