package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebilling/storebilling-backend/internal/bills"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
	"github.com/storebilling/storebilling-backend/pkg/types"
)

func date(t *testing.T, value string) types.Date {
	t.Helper()
	d, err := types.ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestSummarizeBucketsPerDay(t *testing.T) {
	r := Range{Start: date(t, "2024-01-01"), End: date(t, "2024-01-03")}
	summary := Summarize(r, []BillTotal{
		{BillDate: date(t, "2024-01-01"), FinalPrice: decimal.RequireFromString("37.00")},
		{BillDate: date(t, "2024-01-01"), FinalPrice: decimal.RequireFromString("10.10")},
		{BillDate: date(t, "2024-01-03"), FinalPrice: decimal.RequireFromString("92.50")},
		{BillDate: date(t, "2024-01-09"), FinalPrice: decimal.RequireFromString("1000")},
	})

	assert.Equal(t, 139.6, summary.TotalRevenue)
	assert.Equal(t, 3, summary.TotalBills)
	assert.Equal(t, 46.53, summary.AverageOrder)
	require.Len(t, summary.Days, 3)
	assert.Equal(t, "2024-01-01", summary.Days[0].Date.String())
	assert.Equal(t, 47.1, summary.Days[0].Revenue)
	assert.Equal(t, 2, summary.Days[0].Orders)
	assert.Equal(t, 0.0, summary.Days[1].Revenue)
	assert.Equal(t, 0, summary.Days[1].Orders)
	assert.Equal(t, 92.5, summary.Days[2].Revenue)
}

func TestSummarizeEmpty(t *testing.T) {
	r := Range{Start: date(t, "2024-02-28"), End: date(t, "2024-03-01")}
	summary := Summarize(r, nil)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.AverageOrder)
	require.Len(t, summary.Days, 3)
	assert.Equal(t, "2024-02-29", summary.Days[1].Date.String())
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 5, 20, 23, 30, 0, 0, time.UTC)

	r, err := ResolveRange("2024-05-01", "2024-05-10", "", now, 60)
	require.NoError(t, err)
	assert.Equal(t, 10, r.Days())

	r, err = ResolveRange("", "", "", now, 60)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-14", r.Start.String())
	assert.Equal(t, "2024-05-20", r.End.String())

	r, err = ResolveRange("", "", "today", now, 60)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
	assert.Equal(t, "2024-05-20", r.Start.String())

	r, err = ResolveRange("", "", "30D", now, 60)
	require.NoError(t, err)
	assert.Equal(t, 30, r.Days())

	r, err = ResolveRange("", "", "365d", now, 0)
	require.NoError(t, err)
	assert.Equal(t, 365, r.Days())

	r, err = ResolveRange("2024-01-01", "2024-03-01", "", now, 61)
	require.NoError(t, err)
	assert.Equal(t, 61, r.Days())
}

func TestResolveRangeErrors(t *testing.T) {
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name, start, end, preset string
	}{
		{"start only", "2024-05-01", "", ""},
		{"bad date", "2024-05-01", "2024-05-xx", ""},
		{"inverted", "2024-05-10", "2024-05-01", ""},
		{"too long", "2024-01-01", "2024-03-01", ""},
		{"preset over max", "", "", "90d"},
		{"unknown preset", "", "", "2w"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveRange(tc.start, tc.end, tc.preset, now, 60)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}

type stubLister struct {
	filter bills.ListFilter
	rows   []bills.BillDTO
	err    error
}

func (s *stubLister) ListBills(_ context.Context, filter bills.ListFilter) ([]bills.BillDTO, error) {
	s.filter = filter
	return s.rows, s.err
}

func TestServiceSummary(t *testing.T) {
	original := timeNowUTC
	timeNowUTC = func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNowUTC = original })

	lister := &stubLister{rows: []bills.BillDTO{
		{BillDate: date(t, "2024-01-02"), FinalPrice: 37},
		{BillDate: date(t, "2024-01-03"), FinalPrice: 12.5},
	}}
	svc, err := NewService(lister, 60)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), Query{Preset: "3d"})
	require.NoError(t, err)
	require.NotNil(t, lister.filter.Start)
	require.NotNil(t, lister.filter.End)
	assert.Equal(t, "2024-01-01", lister.filter.Start.String())
	assert.Equal(t, "2024-01-03", lister.filter.End.String())
	assert.Nil(t, lister.filter.Date)

	assert.Equal(t, 49.5, summary.TotalRevenue)
	assert.Equal(t, 2, summary.TotalBills)
	assert.Equal(t, 24.75, summary.AverageOrder)
	require.Len(t, summary.Days, 3)
	assert.Equal(t, 0, summary.Days[0].Orders)
}

func TestServiceSummaryErrors(t *testing.T) {
	_, err := NewService(nil, 60)
	require.Error(t, err)

	lister := &stubLister{err: errors.New("boom")}
	svc, err := NewService(lister, 60)
	require.NoError(t, err)

	_, err = svc.Summary(context.Background(), Query{Start: "2024-01-01", End: "2024-01-02"})
	require.Error(t, err)

	_, err = svc.Summary(context.Background(), Query{Start: "bad", End: "2024-01-02"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
