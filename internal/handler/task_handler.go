package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// TaskRequest is the body for task creation
type TaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Topic       *string `json:"topic"`
	Deadline    *string `json:"deadline"`
	Status      string  `json:"status"`
	Position    int     `json:"position"`
	AssigneeIDs []int   `json:"assignee_ids"`
}

// TaskUpdateRequest is the body for a partial task update. Absent
// fields keep their stored values; a present assignee_ids (even empty)
// replaces the whole assignee set.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Topic       *string `json:"topic"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status"`
	Position    *int    `json:"position"`
	AssigneeIDs *[]int  `json:"assignee_ids"`
}

// StatusRequest is the body for the drag-and-drop status change
type StatusRequest struct {
	Status string `json:"status"`
}

// AssigneeResponse is one resolved assignee on a task
type AssigneeResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TaskResponse is the wire shape of a task
type TaskResponse struct {
	ID          int                `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Topic       *string            `json:"topic"`
	Deadline    *string            `json:"deadline"`
	Status      string             `json:"status"`
	Position    int                `json:"position"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	Assignees   []AssigneeResponse `json:"assignees"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Topic:       task.Topic,
		Status:      task.Status,
		Position:    task.Position,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
		Assignees:   make([]AssigneeResponse, 0, len(task.Assignees)),
	}
	if task.Deadline != nil {
		deadline := task.Deadline.Format("2006-01-02")
		resp.Deadline = &deadline
	}
	for _, e := range task.Assignees {
		resp.Assignees = append(resp.Assignees, AssigneeResponse{ID: e.ID, Name: e.Name})
	}
	return resp
}

// List returns tasks filtered by optional status and assignee_id query
// parameters, in board display order.
func (h *TaskHandler) List(c *gin.Context) {
	var filter service.ListTasksInput
	filter.Status = c.Query("status")

	if raw := c.Query("assignee_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "assignee_id: must be a positive integer"})
			return
		}
		filter.AssigneeID = id
	}

	tasks, err := h.svc.ListTasks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetByID returns a single task with its resolved assignees
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.svc.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Create inserts a task together with its assignment rows
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Topic:       req.Topic,
		Deadline:    req.Deadline,
		Status:      req.Status,
		Position:    req.Position,
		AssigneeIDs: req.AssigneeIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update applies a partial update to an existing task
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.svc.UpdateTask(c.Request.Context(), id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Topic:       req.Topic,
		Deadline:    req.Deadline,
		Status:      req.Status,
		Position:    req.Position,
		AssigneeIDs: req.AssigneeIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// SetStatus moves a task between board columns
func (h *TaskHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes a task; its assignment rows cascade away with it
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteTask(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// pathID parses the :id path parameter, answering 400 itself on bad
// input.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id: must be a positive integer"})
		return 0, false
	}
	return id, true
}
