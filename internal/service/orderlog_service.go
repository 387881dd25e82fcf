package service

import (
	"context"
	"time"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
)

// OrderLogService 订单日志，只追加
type OrderLogService interface {
	Create(ctx context.Context, orderID int64, from, to model.OrderStatus, remark string) (*model.OrderLog, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*model.OrderLog, error)
}

type orderLogService struct {
	repo repository.OrderLogRepository
	now  func() time.Time
}

func NewOrderLogService(repo repository.OrderLogRepository, now func() time.Time) OrderLogService {
	if now == nil {
		now = time.Now
	}
	return &orderLogService{repo: repo, now: now}
}

func (s *orderLogService) Create(ctx context.Context, orderID int64, from, to model.OrderStatus, remark string) (*model.OrderLog, error) {
	l := &model.OrderLog{OrderID: orderID, FromStatus: from, ToStatus: to, ChangedAt: s.now(), Remark: remark}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *orderLogService) ListByOrder(ctx context.Context, orderID int64) ([]*model.OrderLog, error) {
	return s.repo.ListByOrder(ctx, orderID)
}
