package model

import "github.com/shopspring/decimal"

// OrderItem 订单明细，Price 为下单时的单价快照
type OrderItem struct {
	ID        int64           `json:"orderItemId" gorm:"primaryKey"`
	OrderID   int64           `json:"orderId" gorm:"index;not null"`
	ProductID int64           `json:"productId" gorm:"index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// Subtotal 小计
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
