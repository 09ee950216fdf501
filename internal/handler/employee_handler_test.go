package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/handler"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock of the employee store
type MockEmployeeStore struct {
	mock.Mock
}

func (m *MockEmployeeStore) Create(ctx context.Context, employee *model.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeStore) List(ctx context.Context) ([]model.Employee, error) {
	args := m.Called(ctx)
	employees := args.Get(0)
	if employees == nil {
		return nil, args.Error(1)
	}
	return employees.([]model.Employee), args.Error(1)
}

func (m *MockEmployeeStore) GetByID(ctx context.Context, id int) (*model.Employee, error) {
	args := m.Called(ctx, id)
	employee := args.Get(0)
	if employee == nil {
		return nil, args.Error(1)
	}
	return employee.(*model.Employee), args.Error(1)
}

func (m *MockEmployeeStore) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupEmployeeRouter(store *MockEmployeeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	employeeHandler := handler.NewEmployeeHandler(service.NewEmployeeService(store))
	r.GET("/employees", employeeHandler.List)
	r.POST("/employees", employeeHandler.Create)
	r.DELETE("/employees/:id", employeeHandler.Delete)

	return r
}

func TestCreateEmployee_Success(t *testing.T) {
	// Arrange
	store := new(MockEmployeeStore)
	router := setupEmployeeRouter(store)

	store.On("Create", mock.Anything, mock.AnythingOfType("*model.Employee")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Employee).ID = 1
		}).
		Return(nil)

	body, _ := json.Marshal(handler.EmployeeRequest{Name: "  Alice  "})
	req, _ := http.NewRequest("POST", "/employees", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.EmployeeResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, 1, response.ID)
	assert.Equal(t, "Alice", response.Name)
	store.AssertExpectations(t)
}

func TestCreateEmployee_EmptyName(t *testing.T) {
	// Arrange
	store := new(MockEmployeeStore)
	router := setupEmployeeRouter(store)

	body := []byte(`{"name": "   "}`)
	req, _ := http.NewRequest("POST", "/employees", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "name")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteEmployee_NotFoundResponse(t *testing.T) {
	// Arrange
	store := new(MockEmployeeStore)
	router := setupEmployeeRouter(store)

	store.On("Delete", mock.Anything, 99).Return(repository.ErrEmployeeNotFound)

	req, _ := http.NewRequest("DELETE", "/employees/99", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Employee not found")
	store.AssertExpectations(t)
}

func TestListEmployees_Success(t *testing.T) {
	// Arrange
	store := new(MockEmployeeStore)
	router := setupEmployeeRouter(store)

	store.On("List", mock.Anything).Return([]model.Employee{
		{ID: 2, Name: "Alice"},
		{ID: 1, Name: "Bob"},
	}, nil)

	req, _ := http.NewRequest("GET", "/employees", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response []handler.EmployeeResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	assert.Equal(t, "Alice", response[0].Name)
	store.AssertExpectations(t)
}
