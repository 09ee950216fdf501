package service

import (
	"context"
	"math"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// trendMonths is how far back the completed-tasks trend reaches.
const trendMonths = 6

// KPISummary is the headline block of the dashboard.
type KPISummary struct {
	Total int `json:"total"`
	// CompletedMonth is a raw count of tasks completed in the current
	// calendar month, not a percentage.
	CompletedMonth    int     `json:"completed_month"`
	Overdue           int     `json:"overdue"`
	AvgDaysToComplete float64 `json:"avg_days_to_complete"`
}

// KPIReport is the full dashboard payload, derived from current store
// state on every call.
type KPIReport struct {
	Summary     KPISummary                `json:"summary"`
	ByStatus    map[string]int            `json:"by_status"`
	ByTopic     []repository.TopicCount   `json:"by_topic"`
	PerEmployee []repository.EmployeeLoad `json:"per_employee"`
	Trend       []repository.MonthCount   `json:"trend"`
}

// KPIService computes dashboard metrics. It is a pure read-side
// component: no caching, no incremental maintenance, never a mutation.
type KPIService struct {
	kpi repository.KPIRepositoryInterface
}

func NewKPIService(kpi repository.KPIRepositoryInterface) *KPIService {
	return &KPIService{kpi: kpi}
}

// Report assembles all dashboard metrics from the current store state.
func (s *KPIService) Report(ctx context.Context) (*KPIReport, error) {
	statusCounts, err := s.kpi.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int, len(model.Statuses))
	for _, status := range model.Statuses {
		byStatus[status] = 0
	}
	total := 0
	for _, sc := range statusCounts {
		byStatus[sc.Status] = sc.Count
		total += sc.Count
	}

	overdue, err := s.kpi.CountOverdue(ctx)
	if err != nil {
		return nil, err
	}

	completedMonth, err := s.kpi.CountCompletedThisMonth(ctx)
	if err != nil {
		return nil, err
	}

	avgDays, err := s.kpi.AvgDaysToComplete(ctx)
	if err != nil {
		return nil, err
	}

	byTopic, err := s.kpi.CountByTopic(ctx)
	if err != nil {
		return nil, err
	}
	if byTopic == nil {
		byTopic = []repository.TopicCount{}
	}

	perEmployee, err := s.kpi.LoadPerEmployee(ctx)
	if err != nil {
		return nil, err
	}
	if perEmployee == nil {
		perEmployee = []repository.EmployeeLoad{}
	}

	trend, err := s.kpi.CompletedTrend(ctx, trendMonths)
	if err != nil {
		return nil, err
	}
	if trend == nil {
		trend = []repository.MonthCount{}
	}

	return &KPIReport{
		Summary: KPISummary{
			Total:             total,
			CompletedMonth:    completedMonth,
			Overdue:           overdue,
			AvgDaysToComplete: math.Round(avgDays*100) / 100,
		},
		ByStatus:    byStatus,
		ByTopic:     byTopic,
		PerEmployee: perEmployee,
		Trend:       trend,
	}, nil
}
