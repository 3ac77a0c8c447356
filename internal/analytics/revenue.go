// Package analytics estimates revenue figures over a catalog snapshot.
//
// The breakdown is a placeholder: there is no order history, so every bucket
// is sampled around the average of the current stock value.
package analytics

import (
	"math"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

const (
	jitterLow  = 0.8
	jitterSpan = 0.4

	// MaxSample caps every breakdown value so it fits in an int64.
	MaxSample = 1 << 62
)

// Source yields uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Item is the subset of a product the estimator needs.
type Item struct {
	Category string
	Price    float64
	Stock    int64
}

type Breakdown struct {
	Daily    []int64 `json:"daily"`
	Weekly   []int64 `json:"weekly"`
	Monthly  []int64 `json:"monthly"`
	Annually []int64 `json:"annually"`
}

type Snapshot struct {
	TotalOrders  int       `json:"totalOrders"`
	TotalRevenue float64   `json:"totalRevenue"`
	Breakdown    Breakdown `json:"breakdown"`
}

// Bucket divisors. Each bucket holds as many samples as its divisor.
const (
	DailyPoints    = 7
	WeeklyPoints   = 4
	MonthlyPoints  = 3
	AnnuallyPoints = 2
)

// Estimate computes a snapshot over items, restricted to category when it is
// non-empty. A nil src falls back to the process-wide generator.
func Estimate(items []Item, category string, src Source) Snapshot {
	if src == nil {
		src = globalSource{}
	}

	orders := 0
	total := decimal.Zero
	for _, it := range items {
		if category != "" && it.Category != category {
			continue
		}
		orders++
		// Non-finite prices cannot be represented as a decimal; they add nothing.
		if math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(it.Stock)))
	}

	revenue := total.InexactFloat64()
	if math.IsInf(revenue, 0) {
		revenue = math.Copysign(math.MaxFloat64, revenue)
	}
	return Snapshot{
		TotalOrders:  orders,
		TotalRevenue: revenue,
		Breakdown: Breakdown{
			Daily:    vary(revenue, DailyPoints, src),
			Weekly:   vary(revenue, WeeklyPoints, src),
			Monthly:  vary(revenue, MonthlyPoints, src),
			Annually: vary(revenue, AnnuallyPoints, src),
		},
	}
}

func vary(total float64, n int, src Source) []int64 {
	avg := total / float64(n)
	out := make([]int64, n)
	for i := range out {
		out[i] = clampSample(math.Floor(avg * (jitterLow + src.Float64()*jitterSpan)))
	}
	return out
}

func clampSample(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= MaxSample:
		return MaxSample
	case v <= -MaxSample:
		return -MaxSample
	}
	return int64(v)
}
