package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

// Create 创建订单
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID 根据订单ID查询订单
func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) list(ctx context.Context, where string, args ...interface{}) ([]*model.Order, error) {
	q := r.db.WithContext(ctx)
	if where != "" {
		q = q.Where(where, args...)
	}
	orders := make([]*model.Order, 0)
	err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser 根据用户ID查询订单列表
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Order, error) {
	return r.list(ctx, "user_id = ?", userID)
}

// ListByMerchant 根据商家ID查询订单列表
func (r *orderRepository) ListByMerchant(ctx context.Context, merchantID int64) ([]*model.Order, error) {
	return r.list(ctx, "merchant_id = ?", merchantID)
}

// ListAll 查询全部订单
func (r *orderRepository) ListAll(ctx context.Context) ([]*model.Order, error) {
	return r.list(ctx, "")
}

func (r *orderRepository) GetStatus(ctx context.Context, orderID int64) (model.OrderStatus, bool, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Select("id", "order_status").Where("id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return order.OrderStatus, true, nil
}

func (r *orderRepository) GetMerchantID(ctx context.Context, orderID int64) (int64, bool, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Select("id", "merchant_id").Where("id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return order.MerchantID, true, nil
}

// UpdateStatus 更新订单状态
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("order_status", status)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) UpdatePayStatus(ctx context.Context, orderID int64, status model.PayStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("pay_status", status)
	return res.RowsAffected, res.Error
}

// Count 统计订单数量
func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}
