package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storebilling/storebilling-backend/internal/bills"
)

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// Query is the raw dashboard request.
type Query struct {
	Start  string
	End    string
	Preset string
}

// Service serves the revenue dashboard.
type Service interface {
	Summary(ctx context.Context, q Query) (*Summary, error)
}

type billLister interface {
	ListBills(ctx context.Context, filter bills.ListFilter) ([]bills.BillDTO, error)
}

type service struct {
	bills   billLister
	maxDays int
}

// NewService builds the dashboard over the bill reader. maxDays caps the range
// length; zero disables the cap.
func NewService(reader billLister, maxDays int) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("bill reader required")
	}
	return &service{bills: reader, maxDays: maxDays}, nil
}

func (s *service) Summary(ctx context.Context, q Query) (*Summary, error) {
	r, err := ResolveRange(q.Start, q.End, q.Preset, timeNowUTC(), s.maxDays)
	if err != nil {
		return nil, err
	}

	list, err := s.bills.ListBills(ctx, bills.ListFilter{Start: &r.Start, End: &r.End})
	if err != nil {
		return nil, err
	}

	totals := make([]BillTotal, 0, len(list))
	for _, b := range list {
		totals = append(totals, BillTotal{
			BillDate:   b.BillDate,
			FinalPrice: decimal.NewFromFloat(b.FinalPrice),
		})
	}
	summary := Summarize(r, totals)
	return &summary, nil
}
