package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/pkg/apperr"
)

// AddressService 收货地址，每个用户最多一个默认地址
type AddressService interface {
	ListByUser(ctx context.Context, userID int64) ([]*model.Address, error)
	Create(ctx context.Context, a *model.Address) error
}

type addressService struct {
	tx   repository.Transactor
	repo repository.AddressRepository
}

func NewAddressService(tx repository.Transactor, repo repository.AddressRepository) AddressService {
	return &addressService{tx: tx, repo: repo}
}

func (s *addressService) ListByUser(ctx context.Context, userID int64) ([]*model.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *addressService) Create(ctx context.Context, a *model.Address) error {
	if a.RecipientName == "" || a.Phone == "" || a.FullAddress == "" {
		return apperr.InvalidArgument("address.Create", "recipient, phone and address are required")
	}
	a.ID = 0
	return s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if a.IsDefault {
			if err := repo.ClearDefault(ctx, a.UserID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, a)
	})
}
