package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

type OrderItemRepository interface {
	WithTx(tx *gorm.DB) OrderItemRepository
	CreateBatch(ctx context.Context, items []*model.OrderItem) error
	ListByOrder(ctx context.Context, orderID int64) ([]*model.OrderItem, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository { return &orderItemRepository{db: db} }

func (r *orderItemRepository) WithTx(tx *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: tx}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []*model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]*model.OrderItem, error) {
	items := make([]*model.OrderItem, 0)
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
