package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment 支付记录，与订单一对一
type Payment struct {
	ID            int64           `json:"paymentId" gorm:"primaryKey"`
	OrderID       int64           `json:"orderId" gorm:"uniqueIndex;not null"`
	PaymentAmount decimal.Decimal `json:"paymentAmount" gorm:"type:decimal(10,2);not null"`
	PaymentStatus PayStatus       `json:"paymentStatus" gorm:"not null;default:0"`
	PaymentTime   *time.Time      `json:"paymentTime,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty" gorm:"type:varchar(32)"`
}

func (Payment) TableName() string { return "payments" }
