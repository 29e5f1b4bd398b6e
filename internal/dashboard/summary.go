package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/storebilling/storebilling-backend/pkg/types"
)

// BillTotal is the slice of a bill the dashboard aggregates.
type BillTotal struct {
	BillDate   types.Date
	FinalPrice decimal.Decimal
}

// DayBucket holds one calendar day of the range.
type DayBucket struct {
	Date    types.Date `json:"date"`
	Revenue float64    `json:"revenue"`
	Orders  int        `json:"orders"`
}

// Summary is the revenue dashboard for a date range.
type Summary struct {
	StartDate    types.Date  `json:"start_date"`
	EndDate      types.Date  `json:"end_date"`
	TotalRevenue float64     `json:"total_revenue"`
	TotalBills   int         `json:"total_bills"`
	AverageOrder float64     `json:"average_order"`
	Days         []DayBucket `json:"days"`
}

// Summarize buckets bills per calendar day of r. Every day of the range gets a
// bucket; bills dated outside it are ignored.
func Summarize(r Range, bills []BillTotal) Summary {
	revenue := make(map[string]decimal.Decimal, r.Days())
	orders := make(map[string]int, r.Days())
	total := decimal.Zero
	count := 0

	for _, bill := range bills {
		if !r.Contains(bill.BillDate) {
			continue
		}
		key := bill.BillDate.String()
		revenue[key] = revenue[key].Add(bill.FinalPrice)
		orders[key]++
		total = total.Add(bill.FinalPrice)
		count++
	}

	days := make([]DayBucket, 0, r.Days())
	for day := r.Start; !day.After(r.End); day = day.AddDays(1) {
		key := day.String()
		days = append(days, DayBucket{
			Date:    day,
			Revenue: revenue[key].Round(2).InexactFloat64(),
			Orders:  orders[key],
		})
	}

	average := decimal.Zero
	if count > 0 {
		average = total.Div(decimal.NewFromInt(int64(count)))
	}

	return Summary{
		StartDate:    r.Start,
		EndDate:      r.End,
		TotalRevenue: total.Round(2).InexactFloat64(),
		TotalBills:   count,
		AverageOrder: average.Round(2).InexactFloat64(),
		Days:         days,
	}
}
