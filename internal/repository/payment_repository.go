package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository
	Create(ctx context.Context, p *model.Payment) error
	GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error)
	// MarkCompleted 仅更新尚未完成的支付记录，返回受影响行数
	MarkCompleted(ctx context.Context, orderID int64, method string, paidAt time.Time) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepository{db: db} }

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) MarkCompleted(ctx context.Context, orderID int64, method string, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("order_id = ? AND payment_status <> ?", orderID, model.PayStatusCompleted).
		Updates(map[string]interface{}{
			"payment_status": model.PayStatusCompleted,
			"payment_time":   paidAt,
			"payment_method": method,
		})
	return res.RowsAffected, res.Error
}
