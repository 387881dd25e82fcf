package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/cache"
	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/pkg/apperr"
)

// MerchantService 商家查询
type MerchantService interface {
	GetByID(ctx context.Context, id int64) (*model.Merchant, error)
	// GetByUserID 根据商家用户查询商家，结果走 redis 缓存
	GetByUserID(ctx context.Context, userID int64) (*model.Merchant, error)
	List(ctx context.Context) ([]*model.Merchant, error)
	// Create 为商家类型用户开店
	Create(ctx context.Context, m *model.Merchant) error
}

type merchantService struct {
	users     repository.UserRepository
	merchants repository.MerchantRepository
	cache     *cache.MerchantCache
}

func NewMerchantService(users repository.UserRepository, merchants repository.MerchantRepository, c *cache.MerchantCache) MerchantService {
	return &merchantService{users: users, merchants: merchants, cache: c}
}

func (s *merchantService) GetByID(ctx context.Context, id int64) (*model.Merchant, error) {
	m, err := s.merchants.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("merchant.Get", "merchant not found")
	}
	return m, err
}

func (s *merchantService) GetByUserID(ctx context.Context, userID int64) (*model.Merchant, error) {
	if m, ok := s.cache.Get(ctx, userID); ok {
		return m, nil
	}
	m, err := s.merchants.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("merchant.GetByUser", "no merchant bound to this user")
	}
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, m)
	return m, nil
}

func (s *merchantService) List(ctx context.Context) ([]*model.Merchant, error) {
	return s.merchants.List(ctx)
}

func (s *merchantService) Create(ctx context.Context, m *model.Merchant) error {
	const op = "merchant.Create"
	if m.ShopName == "" {
		return apperr.InvalidArgument(op, "shop name is required")
	}
	u, err := s.users.GetByID(ctx, m.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(op, "user not found")
	}
	if err != nil {
		return err
	}
	if u.Type != model.UserTypeMerchant {
		return apperr.InvalidArgument(op, "user is not a merchant account")
	}
	if _, err := s.merchants.GetByUserID(ctx, m.UserID); err == nil {
		return apperr.Conflict(op, "user already owns a merchant")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := s.merchants.Create(ctx, m); errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(op, "user already owns a merchant")
	} else if err != nil {
		return err
	}
	return nil
}
