package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单模型
type Order struct {
	ID              int64           `json:"orderId" gorm:"primaryKey"`
	OrderNumber     string          `json:"orderNumber" gorm:"type:varchar(32);index;not null"` // 展示用，不保证唯一
	UserID          int64           `json:"userId" gorm:"index:idx_order_user_created;not null"`
	MerchantID      int64           `json:"merchantId" gorm:"index:idx_order_merchant_created;not null"`
	OrderAmount     decimal.Decimal `json:"orderAmount" gorm:"type:decimal(10,2);not null"` // 创建时冻结
	OrderStatus     OrderStatus     `json:"orderStatus" gorm:"index;not null;default:0"`
	PayStatus       PayStatus       `json:"payStatus" gorm:"not null;default:0"`
	DeliveryAddress string          `json:"deliveryAddress" gorm:"type:varchar(255);not null"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"index:idx_order_user_created;index:idx_order_merchant_created;not null"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderStatus 订单履约状态
type OrderStatus int8

// OrderStatus 订单状态常量
const (
	OrderStatusPending    OrderStatus = 0
	OrderStatusAccepted   OrderStatus = 1
	OrderStatusDelivering OrderStatus = 2
	OrderStatusCompleted  OrderStatus = 3
	OrderStatusCancelled  OrderStatus = 4
)

// Valid 是否为已定义的状态值
func (s OrderStatus) Valid() bool {
	return s >= OrderStatusPending && s <= OrderStatusCancelled
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusAccepted:
		return "accepted"
	case OrderStatusDelivering:
		return "delivering"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PayStatus 支付状态，Order.PayStatus 与 Payment.Status 共用
type PayStatus int8

const (
	PayStatusPending   PayStatus = 0
	PayStatusCompleted PayStatus = 1
	PayStatusFailed    PayStatus = 2
)

func (s PayStatus) String() string {
	switch s {
	case PayStatusPending:
		return "pending"
	case PayStatusCompleted:
		return "completed"
	case PayStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
