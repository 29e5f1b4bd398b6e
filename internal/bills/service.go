package bills

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storebilling/storebilling-backend/internal/items"
	"github.com/storebilling/storebilling-backend/pkg/db"
	"github.com/storebilling/storebilling-backend/pkg/db/models"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
	"github.com/storebilling/storebilling-backend/pkg/logger"
	"github.com/storebilling/storebilling-backend/pkg/metrics"
)

// Reader serves bill reads.
type Reader interface {
	GetBill(ctx context.Context, billID uuid.UUID) (*BillDTO, error)
	ListBills(ctx context.Context, filter ListFilter) ([]BillDTO, error)
}

// Service records bills and keeps item stock in step with them. Every write
// runs in a single transaction.
type Service interface {
	Reader
	Create(ctx context.Context, input BillInput) (*BillDTO, error)
	Replace(ctx context.Context, billID uuid.UUID, input BillInput) (*BillDTO, error)
	Delete(ctx context.Context, billID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx      txRunner
	repo    Repository
	items   *items.Repository
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
}

// NewService wires the bill service.
func NewService(tx txRunner, repo Repository, itemRepo *items.Repository, logg *logger.Logger, m *metrics.StoreMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("bill repository required")
	}
	if itemRepo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{tx: tx, repo: repo, items: itemRepo, logg: logg, metrics: m}, nil
}

func (s *service) Create(ctx context.Context, input BillInput) (dto *BillDTO, err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.EntityBill, "create", start, err) }(time.Now())

	if err := validateInput(input); err != nil {
		return nil, err
	}

	var (
		billID uuid.UUID
		taken  int
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		billRepo := s.repo.WithTx(tx)
		itemRepo := s.items.WithTx(tx)

		priced, err := takeStock(ctx, itemRepo, input.Lines)
		if err != nil {
			return err
		}

		total := billTotal(priced)
		bill := &models.Bill{
			BillDate:   input.BillDate,
			TotalPrice: total,
			FinalPrice: finalPrice(total, input.FinalPrice),
		}
		if err := billRepo.CreateBill(ctx, bill); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert bill")
		}
		if err := insertLines(ctx, billRepo, bill.ID, priced); err != nil {
			return err
		}

		billID = bill.ID
		taken = unitCount(priced)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddStock(metrics.StockDecrement, taken)
	s.logg.Info(s.logg.WithBillID(ctx, billID.String()), "bill.created")
	return s.reload(ctx, billID)
}

func (s *service) Replace(ctx context.Context, billID uuid.UUID, input BillInput) (dto *BillDTO, err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.EntityBill, "replace", start, err) }(time.Now())

	if err := validateInput(input); err != nil {
		return nil, err
	}

	var restored, taken int
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		billRepo := s.repo.WithTx(tx)
		itemRepo := s.items.WithTx(tx)

		units, err := releaseLines(ctx, billRepo, itemRepo, billID)
		if err != nil {
			return err
		}

		priced, err := takeStock(ctx, itemRepo, input.Lines)
		if err != nil {
			return err
		}

		total := billTotal(priced)
		if err := billRepo.UpdateBill(ctx, billID, map[string]any{
			"bill_date":   input.BillDate,
			"total_price": total,
			"final_price": finalPrice(total, input.FinalPrice),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update bill")
		}
		if err := insertLines(ctx, billRepo, billID, priced); err != nil {
			return err
		}

		restored = units
		taken = unitCount(priced)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddStock(metrics.StockRestore, restored)
	s.metrics.AddStock(metrics.StockDecrement, taken)
	s.logg.Info(s.logg.WithBillID(ctx, billID.String()), "bill.replaced")
	return s.reload(ctx, billID)
}

func (s *service) Delete(ctx context.Context, billID uuid.UUID) (err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.EntityBill, "delete", start, err) }(time.Now())

	var restored int
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		billRepo := s.repo.WithTx(tx)

		units, err := releaseLines(ctx, billRepo, s.items.WithTx(tx), billID)
		if err != nil {
			return err
		}
		if _, err := billRepo.DeleteBill(ctx, billID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete bill")
		}

		restored = units
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.AddStock(metrics.StockRestore, restored)
	s.logg.Info(s.logg.WithBillID(ctx, billID.String()), "bill.deleted")
	return nil
}

// takeStock prices the requested lines in order, decrementing stock for each
// one before moving to the next. A repeated item therefore sees the stock left
// by its earlier lines.
func takeStock(ctx context.Context, itemRepo *items.Repository, lines []LineInput) ([]pricedLine, error) {
	priced := make([]pricedLine, 0, len(lines))
	for _, line := range lines {
		ok, err := itemRepo.DecrementStock(ctx, line.ItemID, line.Quantity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
		}

		item, err := itemRepo.FindByID(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, itemNotFound(line.ItemID)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("Insufficient stock for %s", item.Name)).
				WithDetails(map[string]any{
					"item_id":   item.ID.String(),
					"requested": line.Quantity,
					"available": item.Stock,
				})
		}

		priced = append(priced, priceLine(item, line))
	}
	return priced, nil
}

// releaseLines returns the stock held by the bill's lines and removes them.
// Lines whose item was deleted are skipped.
func releaseLines(ctx context.Context, billRepo Repository, itemRepo *items.Repository, billID uuid.UUID) (int, error) {
	exists, err := billRepo.Exists(ctx, billID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bill")
	}
	if !exists {
		return 0, billNotFound(billID)
	}

	lines, err := billRepo.FindLines(ctx, billID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bill lines")
	}

	units := 0
	for _, line := range lines {
		if line.ItemID == nil {
			continue
		}
		if err := itemRepo.RestoreStock(ctx, *line.ItemID, line.Quantity); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore stock")
		}
		units += line.Quantity
	}

	if err := billRepo.DeleteLines(ctx, billID); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete bill lines")
	}
	return units, nil
}

func insertLines(ctx context.Context, billRepo Repository, billID uuid.UUID, priced []pricedLine) error {
	if err := billRepo.CreateLines(ctx, buildLines(billID, priced)); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert bill lines")
	}
	return nil
}

func unitCount(priced []pricedLine) int {
	units := 0
	for _, p := range priced {
		units += p.quantity
	}
	return units
}

func itemNotFound(itemID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found").
		WithDetails(map[string]any{"item_id": itemID.String()})
}

func billNotFound(billID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "Bill not found").
		WithDetails(map[string]any{"bill_id": billID.String()})
}
