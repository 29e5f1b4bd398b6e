package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/storebilling/storebilling-backend/pkg/db/models"
)

// ItemDTO is the catalog payload returned to clients.
type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageBase64 *string   `json:"image_base64"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewItemDTO builds a DTO from the persisted model.
func NewItemDTO(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price.Round(2).InexactFloat64(),
		Stock:       item.Stock,
		ImageBase64: item.ImageBase64,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
