package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storebilling/storebilling-backend/pkg/db/models"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
	"github.com/storebilling/storebilling-backend/pkg/logger"
	"github.com/storebilling/storebilling-backend/pkg/metrics"
	"github.com/storebilling/storebilling-backend/pkg/types"
)

// Service exposes catalog management.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context) ([]ItemDTO, error)
}

// ImageNormalizer fits client supplied data URLs under the storage budget.
type ImageNormalizer interface {
	NormalizeDataURL(value string) (string, error)
}

// CreateItemInput holds the validated payload to create an item.
type CreateItemInput struct {
	Name        string
	Price       decimal.Decimal
	Stock       int
	ImageBase64 *string
}

// UpdateItemInput carries a partial update; nil fields are left untouched.
// An image sent as null or "" clears the stored photo.
type UpdateItemInput struct {
	Name        *string
	Price       *decimal.Decimal
	Stock       *int
	ImageBase64 types.OptionalString
}

type service struct {
	repo    *Repository
	images  ImageNormalizer
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
}

// NewService constructs the catalog service.
func NewService(repo *Repository, images ImageNormalizer, logg *logger.Logger, m *metrics.StoreMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image normalizer required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, images: images, logg: logg, metrics: m}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (dto *ItemDTO, err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.EntityItem, "create", start, err) }(time.Now())

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, price and stock are required")
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateStock(input.Stock); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:  name,
		Price: input.Price.Round(2),
		Stock: input.Stock,
	}
	if input.ImageBase64 != nil && strings.TrimSpace(*input.ImageBase64) != "" {
		image, err := s.images.NormalizeDataURL(*input.ImageBase64)
		if err != nil {
			return nil, err
		}
		item.ImageBase64 = &image
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
	}

	s.logg.Info(s.logg.WithItemID(ctx, item.ID.String()), "item.created")
	return NewItemDTO(item), nil
}

func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (dto *ItemDTO, err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.EntityItem, "update", start, err) }(time.Now())

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		fields["price"] = input.Price.Round(2)
	}
	if input.Stock != nil {
		if err := validateStock(*input.Stock); err != nil {
			return nil, err
		}
		fields["stock"] = *input.Stock
	}
	if input.ImageBase64.Set {
		if input.ImageBase64.Cleared() {
			fields["image_base64"] = nil
		} else {
			image, err := s.images.NormalizeDataURL(*input.ImageBase64.Value)
			if err != nil {
				return nil, err
			}
			fields["image_base64"] = image
		}
	}

	if len(fields) > 0 {
		found, err := s.repo.Update(ctx, itemID, fields)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
		}
		if !found {
			return nil, itemNotFound(itemID)
		}
	}

	item, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithItemID(ctx, itemID.String()), "item.updated")
	return NewItemDTO(item), nil
}

func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) (err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.EntityItem, "delete", start, err) }(time.Now())

	deleted, err := s.repo.Delete(ctx, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
	}
	if deleted {
		s.logg.Info(s.logg.WithItemID(ctx, itemID.String()), "item.deleted")
	}
	return nil
}

func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return NewItemDTO(item), nil
}

func (s *service) ListItems(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list items")
	}
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewItemDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, itemNotFound(itemID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	return item, nil
}

func itemNotFound(itemID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found").
		WithDetails(map[string]any{"item_id": itemID.String()})
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or greater")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be zero or greater")
	}
	return nil
}
