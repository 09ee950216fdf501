package repository

import (
	"context"

	"gorm.io/gorm"
)

// StatusCount is one row of the per-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TopicCount aggregates tasks sharing a non-null topic.
type TopicCount struct {
	Topic string `json:"topic"`
	Total int    `json:"total"`
	Done  int    `json:"done"`
}

// EmployeeLoad is the per-employee workload breakdown. Employees without
// a single assignment still produce a row with zero counts.
type EmployeeLoad struct {
	ID            int    `gorm:"column:id" json:"id"`
	Name          string `gorm:"column:name" json:"name"`
	TotalAssigned int    `gorm:"column:total_assigned" json:"total_assigned"`
	NewCount      int    `gorm:"column:new_count" json:"new_count"`
	ProcessCount  int    `gorm:"column:process_count" json:"process_count"`
	BlockedCount  int    `gorm:"column:blocked_count" json:"blocked_count"`
	DoneCount     int    `gorm:"column:done_count" json:"done_count"`
}

// MonthCount is one bucket of the completed-tasks trend.
type MonthCount struct {
	Month     string `json:"month"`
	Completed int    `json:"completed"`
}

// KPIRepository is the read side of the store. It never mutates.
type KPIRepository struct {
	db *gorm.DB
}

type KPIRepositoryInterface interface {
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountOverdue(ctx context.Context) (int, error)
	CountCompletedThisMonth(ctx context.Context) (int, error)
	AvgDaysToComplete(ctx context.Context) (float64, error)
	CountByTopic(ctx context.Context) ([]TopicCount, error)
	LoadPerEmployee(ctx context.Context) ([]EmployeeLoad, error)
	CompletedTrend(ctx context.Context, months int) ([]MonthCount, error)
}

var _ KPIRepositoryInterface = (*KPIRepository)(nil)

func NewKPIRepository(db *gorm.DB) *KPIRepository {
	return &KPIRepository{db: db}
}

func (r *KPIRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Raw("SELECT status, COUNT(*) AS count FROM tasks GROUP BY status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountOverdue counts tasks whose deadline has passed and are not done.
func (r *KPIRepository) CountOverdue(ctx context.Context) (int, error) {
	var count int
	err := r.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM tasks WHERE deadline < CURRENT_DATE AND status != ?", "done").
		Scan(&count).Error
	return count, err
}

// CountCompletedThisMonth counts done tasks whose last update falls in
// the current calendar month.
func (r *KPIRepository) CountCompletedThisMonth(ctx context.Context) (int, error) {
	var count int
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM tasks
		     WHERE status = ? AND date_trunc('month', updated_at) = date_trunc('month', CURRENT_DATE)`, "done").
		Scan(&count).Error
	return count, err
}

// AvgDaysToComplete averages (updated_at - created_at) in days over done
// tasks. updated_at stands in for completion time. Returns 0 when no
// task is done.
func (r *KPIRepository) AvgDaysToComplete(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 86400), 0)
		     FROM tasks WHERE status = ?`, "done").
		Scan(&avg).Error
	return avg, err
}

func (r *KPIRepository) CountByTopic(ctx context.Context) ([]TopicCount, error) {
	var counts []TopicCount
	err := r.db.WithContext(ctx).
		Raw(`SELECT topic, COUNT(*) AS total,
		            COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0) AS done
		     FROM tasks WHERE topic IS NOT NULL
		     GROUP BY topic ORDER BY topic`).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *KPIRepository) LoadPerEmployee(ctx context.Context) ([]EmployeeLoad, error) {
	var loads []EmployeeLoad
	err := r.db.WithContext(ctx).
		Raw(`SELECT e.id, e.name,
		            COUNT(t.id) AS total_assigned,
		            COALESCE(SUM(CASE WHEN t.status = 'new' THEN 1 ELSE 0 END), 0) AS new_count,
		            COALESCE(SUM(CASE WHEN t.status = 'process' THEN 1 ELSE 0 END), 0) AS process_count,
		            COALESCE(SUM(CASE WHEN t.status = 'blocked' THEN 1 ELSE 0 END), 0) AS blocked_count,
		            COALESCE(SUM(CASE WHEN t.status = 'done' THEN 1 ELSE 0 END), 0) AS done_count
		     FROM employees e
		     LEFT JOIN task_assignees ta ON e.id = ta.employee_id
		     LEFT JOIN tasks t ON ta.task_id = t.id
		     GROUP BY e.id, e.name
		     ORDER BY e.id`).
		Scan(&loads).Error
	if err != nil {
		return nil, err
	}
	return loads, nil
}

// CompletedTrend buckets done tasks by completion month over the last
// `months` calendar months, oldest first.
func (r *KPIRepository) CompletedTrend(ctx context.Context, months int) ([]MonthCount, error) {
	var trend []MonthCount
	err := r.db.WithContext(ctx).
		Raw(`SELECT to_char(date_trunc('month', updated_at), 'YYYY-MM') AS month,
		            COUNT(*) AS completed
		     FROM tasks
		     WHERE status = 'done'
		       AND updated_at >= date_trunc('month', CURRENT_DATE) - make_interval(months => ? - 1)
		     GROUP BY 1 ORDER BY 1`, months).
		Scan(&trend).Error
	if err != nil {
		return nil, err
	}
	return trend, nil
}
