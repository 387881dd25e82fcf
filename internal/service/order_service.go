package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/pkg/apperr"
	"github.com/d60-Lab/waimai/pkg/logger"
	"github.com/d60-Lab/waimai/pkg/orderno"
)

// RemarkOrderCreated 创建订单时写入的日志备注
const RemarkOrderCreated = "order created"

// OrderItemInput 下单明细
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput 下单参数，Items 由调用方保证非空
type CreateOrderInput struct {
	UserID          int64
	MerchantID      int64
	DeliveryAddress string
	Items           []OrderItemInput
}

// OrderDetail 订单详情
type OrderDetail struct {
	Order   *model.Order       `json:"order"`
	Items   []*model.OrderItem `json:"items"`
	Payment *model.Payment     `json:"payment,omitempty"`
}

// OrderService 订单服务
type OrderService interface {
	// CreateOrder 在一个事务内写入订单、明细、支付记录与创建日志，返回订单ID
	CreateOrder(ctx context.Context, in CreateOrderInput) (int64, error)

	// UpdateOrderStatus 更新状态并追加日志。订单不存在时返回 false。
	// 调用方负责鉴权（例如商家只能修改自己的订单）。
	UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, actor string) (bool, error)

	GetOrder(ctx context.Context, orderID int64) (*model.Order, error)
	GetOrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]*model.Order, error)
	GetOrdersByMerchant(ctx context.Context, merchantID int64) ([]*model.Order, error)
	GetAllOrders(ctx context.Context) ([]*model.Order, error)

	// GetOrderMerchantID 返回订单所属商家，订单不存在时 found=false
	GetOrderMerchantID(ctx context.Context, orderID int64) (merchantID int64, found bool, err error)
}

// OrderOption 订单服务可选项
type OrderOption func(*orderService)

// WithClock 注入时钟
func WithClock(now func() time.Time) OrderOption {
	return func(s *orderService) { s.now = now }
}

// WithOrderNumbers 注入订单号生成器
func WithOrderNumbers(g orderno.Generator) OrderOption {
	return func(s *orderService) { s.numbers = g }
}

// WithTransitionPolicy 注入状态流转策略
func WithTransitionPolicy(p *TransitionPolicy) OrderOption {
	return func(s *orderService) { s.policy = p }
}

type orderService struct {
	tx      repository.Transactor
	repos   *repository.Repositories
	now     func() time.Time
	numbers orderno.Generator
	policy  *TransitionPolicy
}

func NewOrderService(tx repository.Transactor, repos *repository.Repositories, opts ...OrderOption) OrderService {
	s := &orderService{
		tx:     tx,
		repos:  repos,
		now:    time.Now,
		policy: NewTransitionPolicy(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.numbers == nil {
		s.numbers = orderno.NewTimestampGenerator(s.now, nil)
	}
	return s
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (int64, error) {
	const op = "order.Create"
	var order *model.Order

	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repos.Users.WithTx(tx).Exists(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound(op, "user not found")
		}

		ok, err = s.repos.Merchants.WithTx(tx).Exists(ctx, in.MerchantID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound(op, "merchant not found")
		}

		// 单价在事务内重新读取，不信任客户端传入的价格
		products := s.repos.Products.WithTx(tx)
		prices := make([]decimal.Decimal, len(in.Items))
		for i, it := range in.Items {
			p, err := products.GetByID(ctx, it.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(op, fmt.Sprintf("product %d not found", it.ProductID))
			}
			if err != nil {
				return err
			}
			if p.MerchantID != in.MerchantID {
				return apperr.Conflict(op, fmt.Sprintf("product %d does not belong to merchant %d", it.ProductID, in.MerchantID))
			}
			prices[i] = p.Price
		}

		total := decimal.Zero
		items := make([]*model.OrderItem, len(in.Items))
		for i, it := range in.Items {
			if it.Quantity <= 0 {
				return apperr.InvalidArgument(op, fmt.Sprintf("quantity for product %d must be greater than 0", it.ProductID))
			}
			items[i] = &model.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: prices[i]}
			total = total.Add(items[i].Subtotal())
		}

		now := s.now()
		order = &model.Order{
			OrderNumber:     s.numbers.Next(),
			UserID:          in.UserID,
			MerchantID:      in.MerchantID,
			OrderAmount:     total.Round(2),
			OrderStatus:     model.OrderStatusPending,
			PayStatus:       model.PayStatusPending,
			DeliveryAddress: in.DeliveryAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repos.Orders.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}

		for _, item := range items {
			item.OrderID = order.ID
		}
		if err := s.repos.OrderItems.WithTx(tx).CreateBatch(ctx, items); err != nil {
			return err
		}

		payment := &model.Payment{
			OrderID:       order.ID,
			PaymentAmount: order.OrderAmount,
			PaymentStatus: model.PayStatusPending,
		}
		if err := s.repos.Payments.WithTx(tx).Create(ctx, payment); err != nil {
			return err
		}

		return s.repos.OrderLogs.WithTx(tx).Create(ctx, &model.OrderLog{
			OrderID:    order.ID,
			FromStatus: model.OrderStatusPending,
			ToStatus:   model.OrderStatusPending,
			ChangedAt:  now,
			Remark:     RemarkOrderCreated,
		})
	})
	if err != nil {
		if apperr.IsDomain(err) {
			return 0, err
		}
		return 0, fmt.Errorf("create order: %w", err)
	}

	logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("user_id", order.UserID),
		zap.Int64("merchant_id", order.MerchantID),
		zap.String("amount", order.OrderAmount.StringFixed(2)),
	)
	return order.ID, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, actor string) (bool, error) {
	const op = "order.UpdateStatus"
	if !status.Valid() {
		return false, apperr.InvalidArgument(op, fmt.Sprintf("unknown order status %d", status))
	}

	var from model.OrderStatus
	updated := false
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		orders := s.repos.Orders.WithTx(tx)

		current, found, err := orders.GetStatus(ctx, orderID)
		if err != nil || !found {
			return err
		}
		if !s.policy.Allowed(current, status) {
			return apperr.Conflict(op, fmt.Sprintf("transition from %s to %s is not allowed", current, status))
		}

		rows, err := orders.UpdateStatus(ctx, orderID, status)
		if err != nil || rows == 0 {
			return err
		}

		if err := s.repos.OrderLogs.WithTx(tx).Create(ctx, &model.OrderLog{
			OrderID:    orderID,
			FromStatus: current,
			ToStatus:   status,
			ChangedAt:  s.now(),
			Remark:     "status updated by " + actor,
		}); err != nil {
			return err
		}
		from = current
		updated = true
		return nil
	})
	if err != nil {
		if apperr.IsDomain(err) {
			return false, err
		}
		return false, fmt.Errorf("update order status: %w", err)
	}

	if updated {
		logger.Info("order status updated",
			zap.Int64("order_id", orderID),
			zap.Stringer("from", from),
			zap.Stringer("to", status),
			zap.String("actor", actor),
		)
	}
	return updated, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	o, err := s.repos.Orders.GetByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order.Get", "order not found")
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *orderService) GetOrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.OrderItems.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	detail := &OrderDetail{Order: o, Items: items}

	p, err := s.repos.Payments.GetByOrderID(ctx, orderID)
	switch {
	case err == nil:
		detail.Payment = p
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return detail, nil
}

func (s *orderService) GetOrdersByUser(ctx context.Context, userID int64) ([]*model.Order, error) {
	return s.repos.Orders.ListByUser(ctx, userID)
}

func (s *orderService) GetOrdersByMerchant(ctx context.Context, merchantID int64) ([]*model.Order, error) {
	return s.repos.Orders.ListByMerchant(ctx, merchantID)
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]*model.Order, error) {
	return s.repos.Orders.ListAll(ctx)
}

func (s *orderService) GetOrderMerchantID(ctx context.Context, orderID int64) (int64, bool, error) {
	return s.repos.Orders.GetMerchantID(ctx, orderID)
}
