package model

import "time"

// OrderLog 订单状态流转日志，只追加不修改
type OrderLog struct {
	ID         int64       `json:"orderLogId" gorm:"primaryKey"`
	OrderID    int64       `json:"orderId" gorm:"index:idx_order_log_order_changed;not null"`
	FromStatus OrderStatus `json:"fromStatus" gorm:"not null"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedAt  time.Time   `json:"changedAt" gorm:"index:idx_order_log_order_changed;not null"`
	Remark     string      `json:"remark,omitempty" gorm:"type:varchar(255)"`
}

func (OrderLog) TableName() string { return "order_logs" }
