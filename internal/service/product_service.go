package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/pkg/apperr"
)

// ProductService 商品管理。修改类操作的归属校验放在 SQL 条件里，
// 未命中（商品不存在或不属于该商家）时返回 false。
type ProductService interface {
	Get(ctx context.Context, id int64) (*model.Product, error)
	ListByMerchant(ctx context.Context, merchantID int64, onlyAvailable bool) ([]*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) (bool, error)
	ToggleAvailability(ctx context.Context, productID, merchantID int64, available bool) (bool, error)
}

type productService struct {
	merchants repository.MerchantRepository
	products  repository.ProductRepository
}

func NewProductService(merchants repository.MerchantRepository, products repository.ProductRepository) ProductService {
	return &productService{merchants: merchants, products: products}
}

func (s *productService) Get(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product.Get", "product not found")
	}
	return p, err
}

func (s *productService) ListByMerchant(ctx context.Context, merchantID int64, onlyAvailable bool) ([]*model.Product, error) {
	return s.products.ListByMerchant(ctx, merchantID, onlyAvailable)
}

func validateProduct(op string, p *model.Product) error {
	if p.Name == "" {
		return apperr.InvalidArgument(op, "product name is required")
	}
	if p.Price.IsNegative() {
		return apperr.InvalidArgument(op, "price must not be negative")
	}
	return nil
}

func (s *productService) Create(ctx context.Context, p *model.Product) error {
	const op = "product.Create"
	if err := validateProduct(op, p); err != nil {
		return err
	}
	ok, err := s.merchants.Exists(ctx, p.MerchantID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(op, "merchant not found")
	}
	p.ID = 0
	p.Price = p.Price.Round(2)
	return s.products.Create(ctx, p)
}

func (s *productService) Update(ctx context.Context, p *model.Product) (bool, error) {
	if err := validateProduct("product.Update", p); err != nil {
		return false, err
	}
	p.Price = p.Price.Round(2)
	return s.products.Update(ctx, p)
}

func (s *productService) ToggleAvailability(ctx context.Context, productID, merchantID int64, available bool) (bool, error) {
	return s.products.SetAvailability(ctx, productID, merchantID, available)
}
