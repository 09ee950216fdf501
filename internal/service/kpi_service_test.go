package service_test

import (
	"context"
	"testing"

	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock of the KPI read-side store
type MockKPIStore struct {
	mock.Mock
}

func (m *MockKPIStore) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	counts := args.Get(0)
	if counts == nil {
		return nil, args.Error(1)
	}
	return counts.([]repository.StatusCount), args.Error(1)
}

func (m *MockKPIStore) CountOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockKPIStore) CountCompletedThisMonth(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockKPIStore) AvgDaysToComplete(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockKPIStore) CountByTopic(ctx context.Context) ([]repository.TopicCount, error) {
	args := m.Called(ctx)
	counts := args.Get(0)
	if counts == nil {
		return nil, args.Error(1)
	}
	return counts.([]repository.TopicCount), args.Error(1)
}

func (m *MockKPIStore) LoadPerEmployee(ctx context.Context) ([]repository.EmployeeLoad, error) {
	args := m.Called(ctx)
	loads := args.Get(0)
	if loads == nil {
		return nil, args.Error(1)
	}
	return loads.([]repository.EmployeeLoad), args.Error(1)
}

func (m *MockKPIStore) CompletedTrend(ctx context.Context, months int) ([]repository.MonthCount, error) {
	args := m.Called(ctx, months)
	trend := args.Get(0)
	if trend == nil {
		return nil, args.Error(1)
	}
	return trend.([]repository.MonthCount), args.Error(1)
}

func TestKPIReport_ByStatusHasAllFourKeys(t *testing.T) {
	// Arrange
	store := new(MockKPIStore)
	svc := service.NewKPIService(store)

	// Store holds 3 tasks: one new, two done
	store.On("CountByStatus", mock.Anything).Return([]repository.StatusCount{
		{Status: "new", Count: 1},
		{Status: "done", Count: 2},
	}, nil)
	store.On("CountOverdue", mock.Anything).Return(0, nil)
	store.On("CountCompletedThisMonth", mock.Anything).Return(2, nil)
	store.On("AvgDaysToComplete", mock.Anything).Return(1.5, nil)
	store.On("CountByTopic", mock.Anything).Return(nil, nil)
	store.On("LoadPerEmployee", mock.Anything).Return(nil, nil)
	store.On("CompletedTrend", mock.Anything, 6).Return(nil, nil)

	// Act
	report, err := svc.Report(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"new": 1, "process": 0, "blocked": 0, "done": 2}, report.ByStatus)
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.CompletedMonth)
	// Empty aggregates serialize as [] and not null
	assert.NotNil(t, report.ByTopic)
	assert.NotNil(t, report.PerEmployee)
	assert.NotNil(t, report.Trend)
	store.AssertExpectations(t)
}

func TestKPIReport_RoundsAverageToTwoDecimals(t *testing.T) {
	// Arrange
	store := new(MockKPIStore)
	svc := service.NewKPIService(store)

	store.On("CountByStatus", mock.Anything).Return([]repository.StatusCount{{Status: "done", Count: 1}}, nil)
	store.On("CountOverdue", mock.Anything).Return(1, nil)
	store.On("CountCompletedThisMonth", mock.Anything).Return(1, nil)
	store.On("AvgDaysToComplete", mock.Anything).Return(2.34567, nil)
	store.On("CountByTopic", mock.Anything).Return([]repository.TopicCount{{Topic: "ops", Total: 1, Done: 1}}, nil)
	store.On("LoadPerEmployee", mock.Anything).Return([]repository.EmployeeLoad{
		{ID: 1, Name: "Alice", TotalAssigned: 1, DoneCount: 1},
	}, nil)
	store.On("CompletedTrend", mock.Anything, 6).Return([]repository.MonthCount{{Month: "2026-08", Completed: 1}}, nil)

	// Act
	report, err := svc.Report(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 2.35, report.Summary.AvgDaysToComplete)
	assert.Equal(t, 1, report.Summary.Overdue)
	assert.Equal(t, "ops", report.ByTopic[0].Topic)
	assert.Equal(t, "Alice", report.PerEmployee[0].Name)
	assert.Equal(t, "2026-08", report.Trend[0].Month)
	store.AssertExpectations(t)
}

func TestKPIReport_StoreFailureSurfaces(t *testing.T) {
	// Arrange
	store := new(MockKPIStore)
	svc := service.NewKPIService(store)

	store.On("CountByStatus", mock.Anything).Return(nil, assert.AnError)

	// Act
	report, err := svc.Report(context.Background())

	// Assert
	assert.Error(t, err)
	assert.Nil(t, report)
	store.AssertExpectations(t)
}
