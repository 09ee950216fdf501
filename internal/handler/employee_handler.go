package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type EmployeeHandler struct {
	svc *service.EmployeeService
}

func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// EmployeeRequest is the body for employee creation
type EmployeeRequest struct {
	Name string `json:"name"`
}

// EmployeeResponse is the wire shape of an employee
type EmployeeResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// List returns all employees ordered by name
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.svc.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, toEmployeeResponse(&employees[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// Create adds a new employee
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	employee, err := h.svc.CreateEmployee(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEmployeeResponse(employee))
}

// Delete removes an employee; its assignments cascade away, the tasks
// themselves stay.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteEmployee(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}
