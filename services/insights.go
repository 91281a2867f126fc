package services

import (
	"fmt"
	"sort"
	"strings"

	"usedcar-analyzer/models"
	"usedcar-analyzer/utils"
)

// topValueCount is how many listings the value-score ranking shows.
const topValueCount = 10

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []models.ScoredListing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByBrand: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	modelSet := make(map[string]struct{})
	var scored []*models.ScoredListing

	report.MinPrice = listings[0].PriceManwon
	report.MaxPrice = listings[0].PriceManwon
	var priceTotal float64

	for i := range listings {
		l := &listings[i]
		modelSet[l.CanonicalName] = struct{}{}
		if l.Brand != "" {
			report.ListingsByBrand[l.Brand]++
		}

		priceTotal += float64(l.PriceManwon)
		if l.PriceManwon < report.MinPrice {
			report.MinPrice = l.PriceManwon
		}
		if l.PriceManwon > report.MaxPrice {
			report.MaxPrice = l.PriceManwon
		}

		if l.Scored {
			scored = append(scored, l)
		}
	}

	report.TotalModels = len(modelSet)
	report.AveragePrice = round2(priceTotal / float64(len(listings)))

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].ValueScore > scored[j].ValueScore
	})
	if len(scored) > 0 {
		report.BestValue = scored[0]
	}
	if len(scored) > topValueCount {
		report.TopValue = scored[:topValueCount]
	} else {
		report.TopValue = scored
	}

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🚗 USED CAR MARKET INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings in dataset : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Distinct models     : \033[1m%d\033[0m\n", r.TotalModels)
	fmt.Println()

	// Price stats
	fmt.Printf("\033[1;33m  Price Statistics (만원)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Printf("  Average price : \033[1;32m%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m%d\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m%d\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	// Top value-score listings
	fmt.Printf("\033[1;33m  Top %d Value-Score Listings\033[0m\n", topValueCount)
	fmt.Printf("  %s\n", thin)
	if len(r.TopValue) == 0 {
		fmt.Printf("  No scored listings found\n")
	} else {
		for i, l := range r.TopValue {
			fmt.Printf("  \033[1m%2d.\033[0m %-40s \033[1;32m%5.1f\033[0m\n",
				i+1, truncate(l.FullName, 38), l.ValueScore)
		}
	}
	fmt.Println()

	// Listings by brand
	fmt.Printf("\033[1;33m  Listings by Brand\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsByBrand) == 0 {
		fmt.Printf("  No brand data\n")
	} else {
		type brandCount struct {
			brand string
			count int
		}
		var brands []brandCount
		for brand, cnt := range r.ListingsByBrand {
			brands = append(brands, brandCount{brand, cnt})
		}
		sort.Slice(brands, func(i, j int) bool {
			if brands[i].count != brands[j].count {
				return brands[i].count > brands[j].count
			}
			return brands[i].brand < brands[j].brand
		})
		for _, bc := range brands {
			fmt.Printf("  %-30s %d\n", truncate(bc.brand, 28), bc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
