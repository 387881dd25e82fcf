package service

import (
	"context"
	"time"

	"github.com/d60-Lab/waimai/internal/repository"
)

// StatisticsService 管理端统计，每次实时查询
type StatisticsService interface {
	Summary(ctx context.Context) (*repository.Summary, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
	now  func() time.Time
}

func NewStatisticsService(repo repository.StatisticsRepository, now func() time.Time) StatisticsService {
	if now == nil {
		now = time.Now
	}
	return &statisticsService{repo: repo, now: now}
}

// Summary todayOrders 以时钟所在时区的自然日计算
func (s *statisticsService) Summary(ctx context.Context) (*repository.Summary, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.Summary(ctx, start, start.AddDate(0, 0, 1))
}
