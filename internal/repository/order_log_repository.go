package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

// OrderLogRepository 只追加，不提供更新与删除
type OrderLogRepository interface {
	WithTx(tx *gorm.DB) OrderLogRepository
	Create(ctx context.Context, log *model.OrderLog) error
	ListByOrder(ctx context.Context, orderID int64) ([]*model.OrderLog, error)
}

type orderLogRepository struct {
	db *gorm.DB
}

func NewOrderLogRepository(db *gorm.DB) OrderLogRepository { return &orderLogRepository{db: db} }

func (r *orderLogRepository) WithTx(tx *gorm.DB) OrderLogRepository {
	return &orderLogRepository{db: tx}
}

func (r *orderLogRepository) Create(ctx context.Context, log *model.OrderLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *orderLogRepository) ListByOrder(ctx context.Context, orderID int64) ([]*model.OrderLog, error) {
	logs := make([]*model.OrderLog, 0)
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at DESC").Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
