package services

import (
	"math"
	"sort"

	"usedcar-analyzer/models"
)

// MarketShare joins the used-market and whole-market yearly transaction
// tables on year and derives the used-market share series: the used/all
// ratio in percent and the year-over-year change of the whole-market count.
// Years present in only one table are dropped (inner join); output is in
// ascending year order.
func MarketShare(used, all []models.YearlyTransactions) []models.MarketSharePoint {
	allByYear := make(map[int]int64, len(all))
	for _, a := range all {
		allByYear[a.Year] = a.TotalTransactions
	}

	points := make([]models.MarketSharePoint, 0, len(used))
	for _, u := range used {
		total, ok := allByYear[u.Year]
		if !ok || total == 0 {
			continue
		}
		points = append(points, models.MarketSharePoint{
			Year:             u.Year,
			UsedTransactions: u.TotalTransactions,
			AllTransactions:  total,
			UsedRatioPercent: round2(float64(u.TotalTransactions) / float64(total) * 100),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })

	for i := 1; i < len(points); i++ {
		prev := points[i-1].AllTransactions
		if prev == 0 {
			continue
		}
		yoy := round2(float64(points[i].AllTransactions-prev) / float64(prev) * 100)
		points[i].AllYoYPercent = &yoy
	}

	return points
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
