package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/pkg/apperr"
	"github.com/d60-Lab/waimai/pkg/logger"
)

// DefaultPaymentMethod 未指定支付方式时使用
const DefaultPaymentMethod = "online payment"

// errNoOrderRow 支付记录存在但订单行缺失，回滚并按未找到处理
var errNoOrderRow = errors.New("order row missing for payment")

// PaymentService 支付服务
type PaymentService interface {
	// CompletePayment 同一事务内将支付记录与订单支付状态置为已完成。
	// 没有支付记录时返回 false；已完成时返回 Conflict。
	CompletePayment(ctx context.Context, orderID int64, method string) (bool, error)

	GetPayment(ctx context.Context, orderID int64) (*model.Payment, error)
}

type paymentService struct {
	tx            repository.Transactor
	repos         *repository.Repositories
	now           func() time.Time
	defaultMethod string
}

func NewPaymentService(tx repository.Transactor, repos *repository.Repositories, now func() time.Time, defaultMethod string) PaymentService {
	if now == nil {
		now = time.Now
	}
	if defaultMethod == "" {
		defaultMethod = DefaultPaymentMethod
	}
	return &paymentService{tx: tx, repos: repos, now: now, defaultMethod: defaultMethod}
}

func (s *paymentService) CompletePayment(ctx context.Context, orderID int64, method string) (bool, error) {
	const op = "payment.Complete"
	if method == "" {
		method = s.defaultMethod
	}

	completed := false
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		payments := s.repos.Payments.WithTx(tx)

		p, err := payments.GetByOrderID(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if p.PaymentStatus == model.PayStatusCompleted {
			return apperr.Conflict(op, "order already paid")
		}

		rows, err := payments.MarkCompleted(ctx, orderID, method, s.now())
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperr.Conflict(op, "order already paid")
		}

		rows, err = s.repos.Orders.WithTx(tx).UpdatePayStatus(ctx, orderID, model.PayStatusCompleted)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errNoOrderRow
		}
		completed = true
		return nil
	})
	if errors.Is(err, errNoOrderRow) {
		logger.Warn("payment row without order", zap.Int64("order_id", orderID))
		return false, nil
	}
	if err != nil {
		if apperr.IsDomain(err) {
			return false, err
		}
		return false, fmt.Errorf("complete payment: %w", err)
	}

	if completed {
		logger.Info("payment completed", zap.Int64("order_id", orderID), zap.String("method", method))
	}
	return completed, nil
}

func (s *paymentService) GetPayment(ctx context.Context, orderID int64) (*model.Payment, error) {
	p, err := s.repos.Payments.GetByOrderID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("payment.Get", "payment not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
