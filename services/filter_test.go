package services

import (
	"reflect"
	"testing"

	"usedcar-analyzer/models"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func filterData() []models.NormalizedListing {
	return []models.NormalizedListing{
		{CanonicalName: "아반떼", FullName: "아반떼 AD", ModelYear: 20, MileageKM: 80000, PriceManwon: 800, Brand: "현대", BodyType: "승용차", NewCarPrice: 2000},
		{CanonicalName: "아반떼", FullName: "아반떼 CN7", ModelYear: 22, MileageKM: 40000, PriceManwon: 1200, Brand: "현대", BodyType: "승용차", NewCarPrice: 2000},
		{CanonicalName: "스포티지", FullName: "스포티지 NQ5", ModelYear: 23, MileageKM: 8000, PriceManwon: 2900, Brand: "기아", BodyType: "SUV", NewCarPrice: 3500},
		{CanonicalName: "레이", FullName: "레이 그래비티", ModelYear: 21, MileageKM: 30000, PriceManwon: 1100, Brand: "기아", BodyType: "경차", NewCarPrice: 1400},
	}
}

func TestFilterBrandExactMatch(t *testing.T) {
	got := FilterListings(filterData(), Criteria{Brand: "기아"})
	if len(got) != 2 {
		t.Fatalf("expected 2 기아 rows, got %d", len(got))
	}
	for _, r := range got {
		if r.Brand != "기아" {
			t.Errorf("unexpected brand %q", r.Brand)
		}
	}
}

func TestFilterBrandTrimmed(t *testing.T) {
	got := FilterListings(filterData(), Criteria{Brand: "  기아  "})
	if len(got) != 2 {
		t.Errorf("expected brand match after trim, got %d rows", len(got))
	}
}

func TestFilterAllSentinel(t *testing.T) {
	data := filterData()
	for _, brand := range []string{"", FilterAll} {
		got := FilterListings(data, Criteria{Brand: brand, BodyType: FilterAll})
		if len(got) != len(data) {
			t.Errorf("Brand=%q: expected no filtering, got %d of %d rows", brand, len(got), len(data))
		}
	}
}

func TestFilterInclusiveBounds(t *testing.T) {
	got := FilterListings(filterData(), Criteria{YearMin: intPtr(21), YearMax: intPtr(22)})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows for years 21–22 inclusive, got %d", len(got))
	}
	got = FilterListings(filterData(), Criteria{PriceMin: intPtr(1200), PriceMax: intPtr(1200)})
	if len(got) != 1 || got[0].PriceManwon != 1200 {
		t.Errorf("price bound 1200–1200 should match exactly one row, got %+v", got)
	}
}

func TestFilterZeroLowerBoundApplies(t *testing.T) {
	data := filterData()

	// An explicit 0 bound is a real predicate, not "unset": every price is
	// ≥ 0 here so the result must equal the input, row for row.
	got := FilterListings(data, Criteria{PriceMin: intPtr(0)})
	if !reflect.DeepEqual(got, data) {
		t.Errorf("PriceMin=0 should keep all non-negative prices, got %d of %d rows", len(got), len(data))
	}

	// And a zero UPPER bound must exclude everything positive.
	got = FilterListings(data, Criteria{PriceMax: intPtr(0)})
	if len(got) != 0 {
		t.Errorf("PriceMax=0 should drop all positive prices, got %d rows", len(got))
	}
}

func TestFilterMileageRange(t *testing.T) {
	got := FilterListings(filterData(), Criteria{MileageMax: floatPtr(30000)})
	if len(got) != 2 {
		t.Errorf("expected 2 rows with mileage ≤ 30000, got %d", len(got))
	}
}

func TestFilterComposition(t *testing.T) {
	data := filterData()
	p1 := Criteria{Brand: "기아"}
	p2 := Criteria{PriceMax: intPtr(1500)}
	combined := Criteria{Brand: "기아", PriceMax: intPtr(1500)}

	chained := FilterListings(FilterListings(data, p1), p2)
	direct := FilterListings(data, combined)
	if !reflect.DeepEqual(chained, direct) {
		t.Errorf("filter composition mismatch:\nchained: %+v\ndirect:  %+v", chained, direct)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	data := filterData()
	snapshot := make([]models.NormalizedListing, len(data))
	copy(snapshot, data)

	_ = FilterListings(data, Criteria{Brand: "현대", YearMin: intPtr(22)})
	if !reflect.DeepEqual(data, snapshot) {
		t.Error("input slice was mutated")
	}
}
