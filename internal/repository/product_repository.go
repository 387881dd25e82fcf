package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

// ProductRepository 商品仓储
//
// Update 与 SetAvailability 在 WHERE 条件中同时匹配 id 与 merchant_id，
// 非本商家的商品不会被修改，调用方通过返回的 bool 判断是否命中。
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	ListByMerchant(ctx context.Context, merchantID int64, onlyAvailable bool) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) (bool, error)
	SetAvailability(ctx context.Context, id, merchantID int64, available bool) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepository{db: db} }

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListByMerchant(ctx context.Context, merchantID int64, onlyAvailable bool) ([]*model.Product, error) {
	q := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID)
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	products := make([]*model.Product, 0)
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND merchant_id = ?", p.ID, p.MerchantID).
		Updates(map[string]interface{}{
			"name":         p.Name,
			"price":        p.Price,
			"description":  p.Description,
			"category_id":  p.CategoryID,
			"image_url":    p.ImageURL,
			"is_available": p.IsAvailable,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepository) SetAvailability(ctx context.Context, id, merchantID int64, available bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND merchant_id = ?", id, merchantID).
		Update("is_available", available)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
