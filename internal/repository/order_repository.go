package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// WithTx 返回绑定到事务的仓储
	WithTx(tx *gorm.DB) OrderRepository

	// Create 创建订单
	Create(ctx context.Context, order *model.Order) error

	// GetByID 根据订单ID查询订单
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)

	// ListByUser / ListByMerchant / ListAll 按创建时间倒序，不分页
	ListByUser(ctx context.Context, userID int64) ([]*model.Order, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)

	// GetStatus 查询当前状态，订单不存在时 found=false
	GetStatus(ctx context.Context, orderID int64) (status model.OrderStatus, found bool, err error)

	// GetMerchantID 查询订单所属商家，订单不存在时 found=false
	GetMerchantID(ctx context.Context, orderID int64) (merchantID int64, found bool, err error)

	// UpdateStatus 更新订单状态，返回受影响行数
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (int64, error)

	// UpdatePayStatus 更新支付状态，返回受影响行数
	UpdatePayStatus(ctx context.Context, orderID int64, status model.PayStatus) (int64, error)

	// Count 统计订单数量
	Count(ctx context.Context) (int64, error)
}
