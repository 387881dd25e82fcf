package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

type MerchantRepository interface {
	WithTx(tx *gorm.DB) MerchantRepository
	Create(ctx context.Context, m *model.Merchant) error
	GetByID(ctx context.Context, id int64) (*model.Merchant, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Merchant, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*model.Merchant, error)
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository { return &merchantRepository{db: db} }

func (r *merchantRepository) WithTx(tx *gorm.DB) MerchantRepository {
	return &merchantRepository{db: tx}
}

func (r *merchantRepository) Create(ctx context.Context, m *model.Merchant) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *merchantRepository) GetByID(ctx context.Context, id int64) (*model.Merchant, error) {
	var m model.Merchant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *merchantRepository) GetByUserID(ctx context.Context, userID int64) (*model.Merchant, error) {
	var m model.Merchant
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *merchantRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Merchant{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *merchantRepository) List(ctx context.Context) ([]*model.Merchant, error) {
	merchants := make([]*model.Merchant, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&merchants).Error; err != nil {
		return nil, err
	}
	return merchants, nil
}
