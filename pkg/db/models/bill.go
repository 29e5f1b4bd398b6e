package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storebilling/storebilling-backend/pkg/types"
)

// Bill is a recorded sale. TotalPrice is fixed at write time; FinalPrice is
// what was collected.
type Bill struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BillDate   types.Date      `gorm:"column:bill_date;type:date;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	FinalPrice decimal.Decimal `gorm:"column:final_price;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	Lines      []BillLine      `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

func (Bill) TableName() string { return "bills" }

func (b *Bill) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
