package bills

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storebilling/storebilling-backend/pkg/db/models"
)

// Repository persists bills and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBill(ctx context.Context, bill *models.Bill) error
	UpdateBill(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeleteBill(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateLines(ctx context.Context, lines []models.BillLine) error
	FindLines(ctx context.Context, billID uuid.UUID) ([]models.BillLine, error)
	DeleteLines(ctx context.Context, billID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Bill, error)
	List(ctx context.Context, filter ListFilter) ([]models.Bill, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bills repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBill(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(bill).Error
}

func (r *repository) UpdateBill(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Bill{}).Where("id = ?", id).Updates(fields).Error
}

func (r *repository) DeleteBill(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bill{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Bill{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateLines(ctx context.Context, lines []models.BillLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&lines).Error
}

func (r *repository) FindLines(ctx context.Context, billID uuid.UUID) ([]models.BillLine, error) {
	var lines []models.BillLine
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("position ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) DeleteLines(ctx context.Context, billID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("bill_id = ?", billID).Delete(&models.BillLine{}).Error
}

// FindByID returns gorm.ErrRecordNotFound when the bill is absent. Lines come
// back in position order with the live item joined.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	err := r.hydrated(ctx).Where("id = ?", id).First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Bill, error) {
	query := r.hydrated(ctx)
	switch {
	case filter.Date != nil:
		query = query.Where("bill_date = ?", *filter.Date)
	case filter.Start != nil && filter.End != nil:
		query = query.Where("bill_date BETWEEN ? AND ?", *filter.Start, *filter.End)
	case filter.Start != nil:
		query = query.Where("bill_date >= ?", *filter.Start)
	case filter.End != nil:
		query = query.Where("bill_date <= ?", *filter.End)
	}

	var bills []models.Bill
	if err := query.Order("created_at DESC").Order("id DESC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repository) hydrated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lines.Item")
}
