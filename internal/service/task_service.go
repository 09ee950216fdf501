package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// deadlineLayouts are the accepted date formats for task deadlines.
var deadlineLayouts = []string{"2006-01-02", time.RFC3339}

// CreateTaskInput carries all fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Topic       *string
	Deadline    *string
	Status      string
	Position    int
	AssigneeIDs []int
}

// UpdateTaskInput carries a partial task update. Nil fields keep their
// previous values. A non-nil AssigneeIDs (even an empty list) replaces
// the entire assignee set; nil leaves it untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Topic       *string
	Deadline    *string
	Status      *string
	Position    *int
	AssigneeIDs *[]int
}

// ListTasksInput filters ListTasks results.
type ListTasksInput struct {
	Status     string
	AssigneeID int
}

// TaskService validates incoming mutations and drives the store. Each
// public method is one logical operation: it either fully applies or
// leaves the store exactly as it was.
type TaskService struct {
	tasks repository.TaskRepositoryInterface
}

func NewTaskService(tasks repository.TaskRepositoryInterface) *TaskService {
	return &TaskService{tasks: tasks}
}

// CreateTask validates the input and atomically inserts the task with
// its assignment rows. A non-existent employee id aborts the whole
// creation with no task left behind.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.add("title", "is required")
	}

	status := in.Status
	if status == "" {
		status = model.StatusNew
	} else if !model.ValidStatus(status) {
		verr.add("status", "must be one of: new, process, blocked, done")
	}

	var deadline *time.Time
	if in.Deadline != nil && *in.Deadline != "" {
		d, err := parseDeadline(*in.Deadline)
		if err != nil {
			verr.add("deadline", "invalid date format")
		} else {
			deadline = d
		}
	}

	ids, msg := normalizeAssigneeIDs(in.AssigneeIDs)
	if msg != "" {
		verr.add("assignee_ids", msg)
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       title,
		Description: in.Description,
		Topic:       normalizeTopic(in.Topic),
		Deadline:    deadline,
		Status:      status,
		Position:    in.Position,
	}

	if err := s.tasks.Create(ctx, task, ids); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a partial update. Omitted fields keep their stored
// values. When AssigneeIDs is supplied the whole assignment set is
// replaced in one transaction; when omitted the current set is returned
// unchanged.
func (s *TaskService) UpdateTask(ctx context.Context, id int, in UpdateTaskInput) (*model.Task, error) {
	verr := &ValidationError{}

	if id <= 0 {
		verr.add("id", "must be a positive integer")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		verr.add("title", "is required")
	}
	if in.Status != nil && !model.ValidStatus(*in.Status) {
		verr.add("status", "must be one of: new, process, blocked, done")
	}

	var deadline *time.Time
	clearDeadline := false
	if in.Deadline != nil {
		if *in.Deadline == "" {
			clearDeadline = true
		} else {
			d, err := parseDeadline(*in.Deadline)
			if err != nil {
				verr.add("deadline", "invalid date format")
			} else {
				deadline = d
			}
		}
	}

	var ids *[]int
	if in.AssigneeIDs != nil {
		normalized, msg := normalizeAssigneeIDs(*in.AssigneeIDs)
		if msg != "" {
			verr.add("assignee_ids", msg)
		}
		ids = &normalized
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Topic != nil {
		task.Topic = normalizeTopic(in.Topic)
	}
	if clearDeadline {
		task.Deadline = nil
	} else if deadline != nil {
		task.Deadline = deadline
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Position != nil {
		task.Position = *in.Position
	}

	if err := s.tasks.Update(ctx, task, ids); err != nil {
		return nil, err
	}
	return task, nil
}

// SetStatus moves a task to another column. Any status is reachable
// from any other, there is no transition graph.
func (s *TaskService) SetStatus(ctx context.Context, id int, status string) (*model.Task, error) {
	verr := &ValidationError{}
	if id <= 0 {
		verr.add("id", "must be a positive integer")
	}
	if !model.ValidStatus(status) {
		verr.add("status", "must be one of: new, process, blocked, done")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

// DeleteTask removes a task and its assignment rows. A repeated delete
// reports not-found and leaves the store untouched.
func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	if id <= 0 {
		verr := &ValidationError{}
		verr.add("id", "must be a positive integer")
		return verr
	}
	return s.tasks.Delete(ctx, id)
}

func (s *TaskService) GetTask(ctx context.Context, id int) (*model.Task, error) {
	if id <= 0 {
		verr := &ValidationError{}
		verr.add("id", "must be a positive integer")
		return nil, verr
	}
	return s.tasks.GetByID(ctx, id)
}

// ListTasks returns tasks matching all given filters in board display
// order, each with its resolved assignee list.
func (s *TaskService) ListTasks(ctx context.Context, in ListTasksInput) ([]model.Task, error) {
	verr := &ValidationError{}
	if in.Status != "" && !model.ValidStatus(in.Status) {
		verr.add("status", "must be one of: new, process, blocked, done")
	}
	if in.AssigneeID < 0 {
		verr.add("assignee_id", "must be a positive integer")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	return s.tasks.List(ctx, repository.TaskFilter{
		Status:     in.Status,
		AssigneeID: in.AssigneeID,
	})
}

func parseDeadline(value string) (*time.Time, error) {
	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// normalizeAssigneeIDs deduplicates and sorts the requested employee
// ids. The resolved assignee list is always ordered by id ascending.
func normalizeAssigneeIDs(ids []int) ([]int, string) {
	seen := make(map[int]bool, len(ids))
	normalized := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, "must contain positive integers only"
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		normalized = append(normalized, id)
	}
	sort.Ints(normalized)
	return normalized, ""
}

// normalizeTopic trims the topic and maps an empty value to NULL.
func normalizeTopic(topic *string) *string {
	if topic == nil {
		return nil
	}
	t := strings.TrimSpace(*topic)
	if t == "" {
		return nil
	}
	return &t
}
