package bills

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storebilling/storebilling-backend/pkg/db/models"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
)

type pricedLine struct {
	item      *models.Item
	quantity  int
	unitPrice decimal.Decimal
	total     decimal.Decimal
}

func priceLine(item *models.Item, line LineInput) pricedLine {
	unit := item.Price
	if line.PricePerUnit != nil {
		unit = *line.PricePerUnit
	}
	unit = unit.Round(2)
	return pricedLine{
		item:      item,
		quantity:  line.Quantity,
		unitPrice: unit,
		total:     lineTotal(unit, line.Quantity),
	}
}

// lineTotal is quantity times unit price rounded to cents.
func lineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func billTotal(lines []pricedLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.total)
	}
	return total
}

func finalPrice(total decimal.Decimal, override *decimal.Decimal) decimal.Decimal {
	if override == nil {
		return total
	}
	return override.Round(2)
}

func buildLines(billID uuid.UUID, priced []pricedLine) []models.BillLine {
	lines := make([]models.BillLine, 0, len(priced))
	for i, p := range priced {
		itemID := p.item.ID
		lines = append(lines, models.BillLine{
			BillID:       billID,
			ItemID:       &itemID,
			ItemName:     p.item.Name,
			Position:     i,
			Quantity:     p.quantity,
			PricePerUnit: p.unitPrice,
			TotalPrice:   p.total,
		})
	}
	return lines
}

func validateInput(input BillInput) error {
	if input.BillDate.IsZero() || len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "billDate and items are required")
	}
	for i, line := range input.Lines {
		if line.ItemID == uuid.Nil || line.Quantity == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "each bill item requires itemId and quantity").
				WithDetails(map[string]any{"index": i})
		}
		if line.Quantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
		if line.PricePerUnit != nil && line.PricePerUnit.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].pricePerUnit must be zero or greater", i))
		}
	}
	if input.FinalPrice != nil && input.FinalPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "finalPrice must be zero or greater")
	}
	return nil
}
