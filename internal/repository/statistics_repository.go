package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
)

// Summary 订单统计
type Summary struct {
	TotalOrders  int64           `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TodayOrders  int64           `json:"todayOrders"`
}

type StatisticsRepository interface {
	// Summary 单条查询统计订单数、总金额以及 [dayStart, dayEnd) 内的订单数
	Summary(ctx context.Context, dayStart, dayEnd time.Time) (*Summary, error)
}

type summaryRow struct {
	TotalOrders  int64
	TotalRevenue decimal.NullDecimal
	TodayOrders  int64
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) Summary(ctx context.Context, dayStart, dayEnd time.Time) (*Summary, error) {
	var row summaryRow
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(order_amount), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN created_at >= ? AND created_at < ? THEN 1 ELSE 0 END), 0) AS today_orders`,
			dayStart, dayEnd).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	s := &Summary{TotalOrders: row.TotalOrders, TodayOrders: row.TodayOrders, TotalRevenue: decimal.Zero}
	if row.TotalRevenue.Valid {
		s.TotalRevenue = row.TotalRevenue.Decimal.Round(2)
	}
	return s, nil
}
