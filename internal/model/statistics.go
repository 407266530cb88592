package model

import (
	"time"
)

// DashboardStats aggregates activity and stock figures for one period.
type DashboardStats struct {
	ReceivingCount     int                 `json:"receiving_count"`
	IssueCount         int                 `json:"issue_count"`
	MovementsByType    []MovementTypeCount `json:"movements_by_type"`
	TopOperators       []OperatorRanking   `json:"top_operators"`
	Stock              StockTotals         `json:"stock"`
	StockValue         string              `json:"stock_value"` // decimal rendered as string
	TimeRangeStartDate time.Time           `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time           `json:"time_range_end_date"`
}

// MovementTypeCount is a per-type movement aggregate in a period.
type MovementTypeCount struct {
	Type     string `json:"type"`
	Count    int    `json:"count"`
	TotalQty int    `json:"total_qty"`
}

// OperatorRanking ranks users by movements recorded.
type OperatorRanking struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	MovementCount int    `json:"movement_count"`
}

// StockTotals sums the item counters across the whole store.
type StockTotals struct {
	Items     int `json:"items"`
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Completed int `json:"completed"`
	Scrapped  int `json:"scrapped"`
}
