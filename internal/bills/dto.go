package bills

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storebilling/storebilling-backend/pkg/db/models"
	"github.com/storebilling/storebilling-backend/pkg/types"
)

// LineInput is one requested line of a bill write.
type LineInput struct {
	ItemID       uuid.UUID
	Quantity     int
	PricePerUnit *decimal.Decimal
}

// BillInput is the payload shared by create and replace.
type BillInput struct {
	BillDate   types.Date
	Lines      []LineInput
	FinalPrice *decimal.Decimal
}

// ListFilter narrows a bill listing. Date wins over Start/End.
type ListFilter struct {
	Date  *types.Date
	Start *types.Date
	End   *types.Date
}

// BillDTO is the bill payload returned to clients.
type BillDTO struct {
	ID         uuid.UUID     `json:"id"`
	BillDate   types.Date    `json:"bill_date"`
	TotalPrice float64       `json:"total_price"`
	FinalPrice float64       `json:"final_price"`
	CreatedAt  time.Time     `json:"created_at"`
	Items      []BillLineDTO `json:"items"`
}

// BillLineDTO is a bill line. Name and ImageBase64 reflect the live item and
// are nil once it has been deleted; ItemName is the name at sale time.
type BillLineDTO struct {
	ID           uuid.UUID  `json:"id"`
	ItemID       *uuid.UUID `json:"item_id"`
	Name         *string    `json:"name"`
	ImageBase64  *string    `json:"image_base64"`
	ItemName     string     `json:"item_name"`
	Quantity     int        `json:"quantity"`
	PricePerUnit float64    `json:"price_per_unit"`
	TotalPrice   float64    `json:"total_price"`
}

// NewBillDTO maps a hydrated bill model.
func NewBillDTO(bill *models.Bill) *BillDTO {
	if bill == nil {
		return nil
	}
	dto := &BillDTO{
		ID:         bill.ID,
		BillDate:   bill.BillDate,
		TotalPrice: bill.TotalPrice.Round(2).InexactFloat64(),
		FinalPrice: bill.FinalPrice.Round(2).InexactFloat64(),
		CreatedAt:  bill.CreatedAt,
		Items:      make([]BillLineDTO, 0, len(bill.Lines)),
	}
	for _, line := range bill.Lines {
		dto.Items = append(dto.Items, newBillLineDTO(line))
	}
	return dto
}

func newBillLineDTO(line models.BillLine) BillLineDTO {
	out := BillLineDTO{
		ID:           line.ID,
		ItemID:       line.ItemID,
		ItemName:     line.ItemName,
		Quantity:     line.Quantity,
		PricePerUnit: line.PricePerUnit.Round(2).InexactFloat64(),
		TotalPrice:   line.TotalPrice.Round(2).InexactFloat64(),
	}
	if line.ItemID != nil && line.Item != nil {
		name := line.Item.Name
		out.Name = &name
		out.ImageBase64 = line.Item.ImageBase64
	}
	return out
}
