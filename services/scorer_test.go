package services

import (
	"math"
	"reflect"
	"testing"

	"usedcar-analyzer/models"
)

const scoreEps = 1e-9

func scorerPopulation() []models.NormalizedListing {
	return []models.NormalizedListing{
		{CanonicalName: "아반떼", FullName: "아반떼 AD", ModelYear: 20, MileageKM: 80000, PriceManwon: 800, Brand: "현대", BodyType: "승용차", NewCarPrice: 2000},
		{CanonicalName: "아반떼", FullName: "아반떼 CN7", ModelYear: 22, MileageKM: 40000, PriceManwon: 1200, Brand: "현대", BodyType: "승용차", NewCarPrice: 2000},
		{CanonicalName: "쏘나타", FullName: "쏘나타 DN8", ModelYear: 24, MileageKM: 12000, PriceManwon: 1800, Brand: "현대", BodyType: "승용차", NewCarPrice: 3500},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < scoreEps
}

func TestScoreSingleRowAgainstItself(t *testing.T) {
	s := NewScorer(DefaultWeights, newTestLogger())
	rows := []models.NormalizedListing{
		{CanonicalName: "아반떼", FullName: "24년형 아반떼 1.6", ModelYear: 24, MileageKM: 12000, PriceManwon: 1200, NewCarPrice: 2000},
	}

	got := s.Score(rows, rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 scored row, got %d", len(got))
	}

	r := got[0]
	if !r.Scored {
		t.Fatal("row should be scored")
	}
	if !almostEqual(r.PriceScore, 0.40) {
		t.Errorf("PriceScore = %v; want 0.40", r.PriceScore)
	}
	for name, score := range map[string]float64{
		"AgeScore":        r.AgeScore,
		"MileageScore":    r.MileageScore,
		"PopularityScore": r.PopularityScore,
	} {
		if !almostEqual(score, 1.0) {
			t.Errorf("%s = %v; want 1.0 for a degenerate population", name, score)
		}
	}
	if !almostEqual(r.ValueScore, 76.0) {
		t.Errorf("ValueScore = %v; want 76.0", r.ValueScore)
	}
}

func TestScoreRangeInvariants(t *testing.T) {
	s := NewScorer(DefaultWeights, newTestLogger())
	population := scorerPopulation()

	for _, r := range s.Score(population, population) {
		for name, score := range map[string]float64{
			"PriceScore":      r.PriceScore,
			"AgeScore":        r.AgeScore,
			"MileageScore":    r.MileageScore,
			"PopularityScore": r.PopularityScore,
		} {
			if score < 0 || score > 1 {
				t.Errorf("%s: %s = %v out of [0,1]", r.FullName, name, score)
			}
		}
		if r.ValueScore < 0 || r.ValueScore > 100 {
			t.Errorf("%s: ValueScore = %v out of [0,100]", r.FullName, r.ValueScore)
		}
	}
}

func TestScoreSubScores(t *testing.T) {
	s := NewScorer(DefaultWeights, newTestLogger())
	population := scorerPopulation()
	got := s.Score(population, population)

	// Oldest, highest-mileage row of the more popular model.
	r := got[0]
	if !almostEqual(r.PriceScore, 0.6) {
		t.Errorf("PriceScore = %v; want 0.6", r.PriceScore)
	}
	if !almostEqual(r.AgeScore, 0) {
		t.Errorf("AgeScore = %v; want 0", r.AgeScore)
	}
	if !almostEqual(r.MileageScore, 0) {
		t.Errorf("MileageScore = %v; want 0", r.MileageScore)
	}
	if !almostEqual(r.PopularityScore, 1) {
		t.Errorf("PopularityScore = %v; want 1", r.PopularityScore)
	}
	if !almostEqual(r.ValueScore, 34.0) {
		t.Errorf("ValueScore = %v; want 34.0", r.ValueScore)
	}

	// Newest, lowest-mileage row of the less popular model.
	r = got[2]
	if !almostEqual(r.AgeScore, 1) || !almostEqual(r.MileageScore, 1) {
		t.Errorf("AgeScore, MileageScore = %v, %v; want 1, 1", r.AgeScore, r.MileageScore)
	}
	if !almostEqual(r.PopularityScore, 0) {
		t.Errorf("PopularityScore = %v; want 0", r.PopularityScore)
	}
}

func TestScorePriceAboveNewCarClamps(t *testing.T) {
	s := NewScorer(DefaultWeights, newTestLogger())
	rows := []models.NormalizedListing{
		{CanonicalName: "아반떼", ModelYear: 24, MileageKM: 100, PriceManwon: 2500, NewCarPrice: 2000},
	}

	got := s.Score(rows, rows)
	if got[0].PriceScore != 0 {
		t.Errorf("PriceScore = %v; want 0 when used price exceeds new-car price", got[0].PriceScore)
	}
}

func TestScoreDegenerateYears(t *testing.T) {
	s := NewScorer(DefaultWeights, newTestLogger())
	rows := []models.NormalizedListing{
		{CanonicalName: "아반떼", ModelYear: 22, MileageKM: 10000, PriceManwon: 1000, NewCarPrice: 2000},
		{CanonicalName: "쏘나타", ModelYear: 22, MileageKM: 50000, PriceManwon: 1500, NewCarPrice: 3500},
	}

	for _, r := range s.Score(rows, rows) {
		if !almostEqual(r.AgeScore, 1.0) {
			t.Errorf("%s: AgeScore = %v; want 1.0 when all years are identical", r.CanonicalName, r.AgeScore)
		}
	}
}

func TestScoreSubsetUsesPopulationBounds(t *testing.T) {
	s := NewScorer(DefaultWeights, newTestLogger())
	population := scorerPopulation()
	subset := population[1:2] // the year-22 row

	got := s.Score(subset, population)
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	// Population years span 20–24, so 22 normalizes to 0.5 — not the 1.0 a
	// subset-local normalization would produce.
	if !almostEqual(got[0].AgeScore, 0.5) {
		t.Errorf("AgeScore = %v; want 0.5 against the full population", got[0].AgeScore)
	}
}

func TestScoreEmptyPopulation(t *testing.T) {
	s := NewScorer(DefaultWeights, newTestLogger())
	rows := scorerPopulation()

	got := s.Score(rows, nil)
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows back, got %d", len(rows), len(got))
	}
	for _, r := range got {
		if r.Scored {
			t.Errorf("%s: Scored = true; want false for empty population", r.FullName)
		}
		if r.ValueScore != 0 {
			t.Errorf("%s: ValueScore = %v; want 0 for unscored row", r.FullName, r.ValueScore)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer(DefaultWeights, newTestLogger())
	population := scorerPopulation()

	first := s.Score(population, population)
	second := s.Score(population, population)
	if !reflect.DeepEqual(first, second) {
		t.Error("scoring the same input twice produced different results")
	}
}
