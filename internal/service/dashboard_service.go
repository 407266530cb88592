package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/model"
	"github.com/Ashutoshverma77/store-app-be/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardService interface {
	// GetStats aggregates activity for the period ("day", "week" or "month",
	// ending now) together with current stock totals and valuation.
	GetStats(ctx context.Context, period string) (model.DashboardStats, error)
}

type dashboardService struct {
	dashRepo repository.DashboardRepository
}

func NewDashboardService(dashRepo repository.DashboardRepository) DashboardService {
	return &dashboardService{dashRepo: dashRepo}
}

func periodRange(period string, now time.Time) (time.Time, time.Time, error) {
	end := now
	switch period {
	case "", "day":
		return now.AddDate(0, 0, -1), end, nil
	case "week":
		return now.AddDate(0, 0, -7), end, nil
	case "month":
		return now.AddDate(0, -1, 0), end, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown period %q", apperr.ErrValidation, period)
	}
}

func (s *dashboardService) GetStats(ctx context.Context, period string) (model.DashboardStats, error) {
	var stats model.DashboardStats

	start, end, err := periodRange(period, time.Now())
	if err != nil {
		return stats, err
	}
	stats.TimeRangeStartDate = start
	stats.TimeRangeEndDate = end

	if stats.ReceivingCount, err = s.dashRepo.CountReceivings(ctx, start, end); err != nil {
		return stats, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	if stats.IssueCount, err = s.dashRepo.CountIssues(ctx, start, end); err != nil {
		return stats, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	if stats.MovementsByType, err = s.dashRepo.MovementsByType(ctx, start, end); err != nil {
		return stats, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	if stats.TopOperators, err = s.dashRepo.TopOperators(ctx, start, end, 5); err != nil {
		return stats, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	if stats.Stock, err = s.dashRepo.StockTotals(ctx); err != nil {
		return stats, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	raw, err := s.dashRepo.StockValue(ctx)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		value = decimal.Zero
	}
	stats.StockValue = value.StringFixed(2)

	return stats, nil
}
