package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

type AddressRepository interface {
	WithTx(tx *gorm.DB) AddressRepository
	Create(ctx context.Context, a *model.Address) error
	ListByUser(ctx context.Context, userID int64) ([]*model.Address, error)
	// ClearDefault 取消该用户已有的默认地址
	ClearDefault(ctx context.Context, userID int64) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository { return &addressRepository{db: db} }

func (r *addressRepository) WithTx(tx *gorm.DB) AddressRepository {
	return &addressRepository{db: tx}
}

func (r *addressRepository) Create(ctx context.Context, a *model.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *addressRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Address, error) {
	addrs := make([]*model.Address, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("id ASC").
		Find(&addrs).Error
	if err != nil {
		return nil, err
	}
	return addrs, nil
}

func (r *addressRepository) ClearDefault(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
