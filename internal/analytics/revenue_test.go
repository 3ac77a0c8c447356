package analytics

import (
	"math"
	"math/rand/v2"
	"testing"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func seedItems() []Item {
	return []Item{
		{Category: "Electronics", Price: 999, Stock: 5},
		{Category: "Electronics", Price: 699, Stock: 8},
		{Category: "Clothing", Price: 120, Stock: 15},
	}
}

func TestEstimate_SingleProduct(t *testing.T) {
	src := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 50; i++ {
		s := Estimate([]Item{{Price: 100, Stock: 2}}, "", src)
		if s.TotalOrders != 1 || s.TotalRevenue != 200 {
			t.Fatalf("orders=%d revenue=%v", s.TotalOrders, s.TotalRevenue)
		}
		if len(s.Breakdown.Daily) != DailyPoints {
			t.Fatalf("daily len=%d", len(s.Breakdown.Daily))
		}
		for _, v := range s.Breakdown.Daily {
			if v < 22 || v > 34 {
				t.Fatalf("daily sample %d out of [22,34]", v)
			}
		}
	}
}

func TestEstimate_JitterBounds(t *testing.T) {
	items := []Item{{Price: 100, Stock: 2}}

	low := Estimate(items, "", fixedSource(0))
	for _, v := range low.Breakdown.Daily {
		if v != 22 {
			t.Fatalf("low daily=%d want=22", v)
		}
	}
	if low.Breakdown.Annually[0] != 80 {
		t.Fatalf("low annually=%d want=80", low.Breakdown.Annually[0])
	}

	high := Estimate(items, "", fixedSource(math.Nextafter(1, 0)))
	for _, v := range high.Breakdown.Daily {
		if v != 34 {
			t.Fatalf("high daily=%d want=34", v)
		}
	}
	if high.Breakdown.Annually[0] != 119 {
		t.Fatalf("high annually=%d want=119", high.Breakdown.Annually[0])
	}
}

func TestEstimate_TotalRevenueIsExact(t *testing.T) {
	s := Estimate(seedItems(), "", nil)
	if s.TotalOrders != 3 {
		t.Fatalf("orders=%d", s.TotalOrders)
	}
	if s.TotalRevenue != 12387 {
		t.Fatalf("revenue=%v want=12387", s.TotalRevenue)
	}

	frac := Estimate([]Item{{Price: 0.1, Stock: 3}, {Price: 0.2, Stock: 1}}, "", nil)
	if frac.TotalRevenue != 0.5 {
		t.Fatalf("revenue=%v want=0.5", frac.TotalRevenue)
	}
}

func TestEstimate_CategoryFilter(t *testing.T) {
	s := Estimate(seedItems(), "Electronics", nil)
	if s.TotalOrders != 2 || s.TotalRevenue != 10587 {
		t.Fatalf("orders=%d revenue=%v", s.TotalOrders, s.TotalRevenue)
	}

	buckets := map[string]struct {
		got     []int64
		divisor float64
	}{
		"daily":    {s.Breakdown.Daily, DailyPoints},
		"weekly":   {s.Breakdown.Weekly, WeeklyPoints},
		"monthly":  {s.Breakdown.Monthly, MonthlyPoints},
		"annually": {s.Breakdown.Annually, AnnuallyPoints},
	}
	for name, b := range buckets {
		if len(b.got) != int(b.divisor) {
			t.Fatalf("%s len=%d want=%v", name, len(b.got), b.divisor)
		}
		avg := s.TotalRevenue / b.divisor
		for _, v := range b.got {
			if float64(v) < math.Floor(avg*0.8) || float64(v) > avg*1.2 {
				t.Fatalf("%s sample %d outside ±20%% of %v", name, v, avg)
			}
		}
	}
}

func TestEstimate_NoMatchesYieldsZeros(t *testing.T) {
	s := Estimate(seedItems(), "Garden", nil)
	if s.TotalOrders != 0 || s.TotalRevenue != 0 {
		t.Fatalf("orders=%d revenue=%v", s.TotalOrders, s.TotalRevenue)
	}

	all := [][]int64{s.Breakdown.Daily, s.Breakdown.Weekly, s.Breakdown.Monthly, s.Breakdown.Annually}
	for _, bucket := range all {
		if len(bucket) == 0 {
			t.Fatalf("empty bucket")
		}
		for _, v := range bucket {
			if v != 0 {
				t.Fatalf("sample=%d want=0", v)
			}
		}
	}
}

func TestEstimate_HugeValuesStayFinite(t *testing.T) {
	items := []Item{
		{Category: "x", Price: 1e300, Stock: 1 << 53},
		{Category: "x", Price: 1e300, Stock: 1 << 53},
		{Category: "x", Price: math.Inf(1), Stock: 1},
	}

	s := Estimate(items, "", fixedSource(math.Nextafter(1, 0)))
	if s.TotalOrders != 3 {
		t.Fatalf("orders=%d", s.TotalOrders)
	}
	if math.IsInf(s.TotalRevenue, 0) || math.IsNaN(s.TotalRevenue) {
		t.Fatalf("revenue=%v", s.TotalRevenue)
	}
	for _, v := range s.Breakdown.Annually {
		if v != MaxSample {
			t.Fatalf("annually=%d want=%d", v, int64(MaxSample))
		}
	}
}
