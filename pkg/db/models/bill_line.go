package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillLine captures one priced entry of a bill. ItemID is nil once the
// referenced item has been deleted; ItemName keeps the name at sale time.
type BillLine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BillID       uuid.UUID       `gorm:"column:bill_id;type:uuid;not null"`
	ItemID       *uuid.UUID      `gorm:"column:item_id;type:uuid"`
	Item         *Item           `gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:SET NULL"`
	ItemName     string          `gorm:"column:item_name;not null"`
	Position     int             `gorm:"column:position;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	PricePerUnit decimal.Decimal `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (BillLine) TableName() string { return "bill_lines" }

func (l *BillLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
