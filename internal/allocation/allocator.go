package allocation

import (
	"math"
	"sort"
)

// CategoryResult is one category's share of the budget.
type CategoryResult struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Percentage         int     `json:"percentage"`
	AdjustedPercentage float64 `json:"adjusted_percentage"`
	Amount             int64   `json:"amount"`
	Rank               int     `json:"rank"`
}

// Allocate distributes total across categories after applying multipliers.
// Results are sorted by amount descending; equal amounts keep declaration
// order. A non-positive total yields zero amounts.
func Allocate(categories []CategoryWeight, total int64, m Multipliers, mode Normalization) []CategoryResult {
	if total < 0 {
		total = 0
	}

	adjusted := make([]float64, len(categories))
	for i, c := range categories {
		adjusted[i] = c.BasePercentage * m.Style.Multiplier(c.ID) * m.Venue * m.Season
	}

	results := make([]CategoryResult, len(categories))
	for i, c := range categories {
		results[i] = CategoryResult{ID: c.ID, Name: c.Name}
	}

	switch mode {
	case NormalizationProportional:
		shares := normalizeShares(adjusted)
		amounts := apportion(total, shares)
		percents := apportion(100, shares)
		for i := range results {
			results[i].AdjustedPercentage = shares[i]
			results[i].Amount = amounts[i]
			results[i].Percentage = int(percents[i])
		}
	default:
		for i := range results {
			results[i].AdjustedPercentage = adjusted[i]
			results[i].Amount = int64(math.Round(float64(total) * adjusted[i] / 100))
			results[i].Percentage = int(math.Round(adjusted[i]))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Amount > results[j].Amount
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// normalizeShares rescales values so they sum to 100. All-zero input stays zero.
func normalizeShares(values []float64) []float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	shares := make([]float64, len(values))
	if sum <= 0 {
		return shares
	}
	for i, v := range values {
		shares[i] = v / sum * 100
	}
	return shares
}

// apportion splits total by percentage shares using the largest-remainder
// method, so the parts sum exactly to total whenever the shares sum to 100.
// Remainder ties go to the earlier index.
func apportion(total int64, shares []float64) []int64 {
	parts := make([]int64, len(shares))
	if total <= 0 {
		return parts
	}

	type remainder struct {
		index int
		frac  float64
	}
	rems := make([]remainder, len(shares))

	var assigned, sumShares float64
	for i, s := range shares {
		exact := float64(total) * s / 100
		floor := math.Floor(exact)
		parts[i] = int64(floor)
		assigned += floor
		sumShares += s
		rems[i] = remainder{index: i, frac: exact - floor}
	}
	if sumShares <= 0 {
		return parts
	}

	left := total - int64(assigned)
	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})
	for i := 0; left > 0 && len(rems) > 0; i++ {
		parts[rems[i%len(rems)].index]++
		left--
	}
	return parts
}
