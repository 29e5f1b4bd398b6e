package bills

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
	"github.com/storebilling/storebilling-backend/pkg/types"
)

// GetBill returns nil without error when the bill does not exist.
func (s *service) GetBill(ctx context.Context, billID uuid.UUID) (*BillDTO, error) {
	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bill")
	}
	return NewBillDTO(bill), nil
}

// ListBills returns matching bills, most recently created first.
func (s *service) ListBills(ctx context.Context, filter ListFilter) ([]BillDTO, error) {
	if filter.Date == nil && filter.Start != nil && filter.End != nil && filter.Start.After(*filter.End) {
		return []BillDTO{}, nil
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bills")
	}
	out := make([]BillDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewBillDTO(&rows[i]))
	}
	return out, nil
}

// ParseListFilter builds a filter from raw YYYY-MM-DD query values. Blank
// values are ignored.
func ParseListFilter(date, start, end string) (ListFilter, error) {
	var (
		filter ListFilter
		err    error
	)
	if filter.Date, err = parseFilterDate("date", date); err != nil {
		return ListFilter{}, err
	}
	if filter.Start, err = parseFilterDate("start", start); err != nil {
		return ListFilter{}, err
	}
	if filter.End, err = parseFilterDate("end", end); err != nil {
		return ListFilter{}, err
	}
	return filter, nil
}

func parseFilterDate(name, value string) (*types.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := types.ParseDate(value)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a YYYY-MM-DD date")
	}
	return &d, nil
}

// reload re-reads a committed bill with its lines.
func (s *service) reload(ctx context.Context, billID uuid.UUID) (*BillDTO, error) {
	dto, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if dto == nil {
		return nil, billNotFound(billID)
	}
	return dto, nil
}
