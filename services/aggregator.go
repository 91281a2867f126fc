package services

import (
	"fmt"
	"sort"
	"strconv"

	"usedcar-analyzer/models"
)

// Metric selects the reduction applied per group.
type Metric string

const (
	MetricMeanPrice   Metric = "mean_price"
	MetricCount       Metric = "count"
	MetricMeanMileage Metric = "mean_mileage"
	// MetricPriceDelta is mean new-car price minus mean used price per group.
	MetricPriceDelta Metric = "price_delta"
)

// GroupBy selects the grouping dimension.
type GroupBy string

const (
	GroupByBrand     GroupBy = "brand"
	GroupByModelYear GroupBy = "model_year"
	GroupByBodyType  GroupBy = "body_type"
)

// Aggregate computes the chosen metric per group over data. The result is
// sorted by group key (numerically for model_year) so output is
// deterministic. Unknown metric or group dimensions are an error so the API
// layer can reject them.
func Aggregate(data []models.NormalizedListing, metric Metric, groupBy GroupBy) ([]models.AggregateRow, error) {
	keyOf, err := groupKeyFunc(groupBy)
	if err != nil {
		return nil, err
	}

	type groupAcc struct {
		count       int
		priceSum    float64
		mileageSum  float64
		newPriceSum float64
	}
	groups := make(map[string]*groupAcc)
	for _, row := range data {
		key := keyOf(row)
		acc, ok := groups[key]
		if !ok {
			acc = &groupAcc{}
			groups[key] = acc
		}
		acc.count++
		acc.priceSum += float64(row.PriceManwon)
		acc.mileageSum += row.MileageKM
		acc.newPriceSum += row.NewCarPrice
	}

	rows := make([]models.AggregateRow, 0, len(groups))
	for key, acc := range groups {
		var value float64
		switch metric {
		case MetricMeanPrice:
			value = acc.priceSum / float64(acc.count)
		case MetricCount:
			value = float64(acc.count)
		case MetricMeanMileage:
			value = acc.mileageSum / float64(acc.count)
		case MetricPriceDelta:
			value = (acc.newPriceSum - acc.priceSum) / float64(acc.count)
		default:
			return nil, fmt.Errorf("aggregate: unknown metric %q", metric)
		}
		rows = append(rows, models.AggregateRow{Key: key, Value: value})
	}

	sort.Slice(rows, func(i, j int) bool {
		if groupBy == GroupByModelYear {
			yi, _ := strconv.Atoi(rows[i].Key)
			yj, _ := strconv.Atoi(rows[j].Key)
			return yi < yj
		}
		return rows[i].Key < rows[j].Key
	})
	return rows, nil
}

func groupKeyFunc(groupBy GroupBy) (func(models.NormalizedListing) string, error) {
	switch groupBy {
	case GroupByBrand:
		return func(r models.NormalizedListing) string { return r.Brand }, nil
	case GroupByModelYear:
		return func(r models.NormalizedListing) string { return strconv.Itoa(r.ModelYear) }, nil
	case GroupByBodyType:
		return func(r models.NormalizedListing) string { return r.BodyType }, nil
	default:
		return nil, fmt.Errorf("aggregate: unknown group dimension %q", groupBy)
	}
}
