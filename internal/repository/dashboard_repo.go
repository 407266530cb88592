package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Ashutoshverma77/store-app-be/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository interface {
	CountReceivings(ctx context.Context, start, end time.Time) (int, error)
	CountIssues(ctx context.Context, start, end time.Time) (int, error)
	MovementsByType(ctx context.Context, start, end time.Time) ([]model.MovementTypeCount, error)
	TopOperators(ctx context.Context, start, end time.Time, limit int) ([]model.OperatorRanking, error)
	StockTotals(ctx context.Context) (model.StockTotals, error)
	// StockValue returns SUM(price * total) over items as a text literal so
	// the service can parse it without float rounding.
	StockValue(ctx context.Context) (string, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountReceivings(ctx context.Context, start, end time.Time) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Receiving{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count receivings: %w", err)
	}
	return int(count), nil
}

func (r *dashboardRepository) CountIssues(ctx context.Context, start, end time.Time) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Issue{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count issues: %w", err)
	}
	return int(count), nil
}

func (r *dashboardRepository) MovementsByType(ctx context.Context, start, end time.Time) ([]model.MovementTypeCount, error) {
	var rows []model.MovementTypeCount
	if err := r.db.WithContext(ctx).Table("stock_movements").
		Select("type, COUNT(*) as count, COALESCE(SUM(qty), 0) as total_qty").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("type").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate movements: %w", err)
	}
	return rows, nil
}

func (r *dashboardRepository) TopOperators(ctx context.Context, start, end time.Time, limit int) ([]model.OperatorRanking, error) {
	var rankings []model.OperatorRanking
	if err := r.db.WithContext(ctx).Table("stock_movements").
		Select("users.id as user_id, users.username as username, COUNT(*) as movement_count").
		Joins("JOIN users ON users.id = stock_movements.operated_by").
		Where("stock_movements.created_at >= ? AND stock_movements.created_at <= ?", start, end).
		Group("users.id, users.username").
		Order("movement_count DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top operators: %w", err)
	}
	return rankings, nil
}

func (r *dashboardRepository) StockTotals(ctx context.Context) (model.StockTotals, error) {
	var totals model.StockTotals
	if err := r.db.WithContext(ctx).Table("store_items").
		Select("COUNT(*) as items, COALESCE(SUM(total), 0) as total, COALESCE(SUM(available), 0) as available, COALESCE(SUM(reserved_for_issue), 0) as reserved, COALESCE(SUM(completed), 0) as completed, COALESCE(SUM(scrapped), 0) as scrapped").
		Where("deleted_at IS NULL").
		Scan(&totals).Error; err != nil {
		return totals, fmt.Errorf("failed to sum stock counters: %w", err)
	}
	return totals, nil
}

func (r *dashboardRepository) StockValue(ctx context.Context) (string, error) {
	var result struct {
		Value string
	}
	if err := r.db.WithContext(ctx).Table("store_items").
		Select("COALESCE(CAST(SUM(price * total) AS TEXT), '0') as value").
		Where("deleted_at IS NULL").
		Scan(&result).Error; err != nil {
		return "0", fmt.Errorf("failed to compute stock value: %w", err)
	}
	return result.Value, nil
}
