package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// TaskFilter narrows List results. Zero values mean "no filter".
type TaskFilter struct {
	Status     string
	AssigneeID int
}

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task, assigneeIDs []int) error
	GetByID(ctx context.Context, id int) (*model.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task, assigneeIDs *[]int) error
	UpdateStatus(ctx context.Context, id int, status string) error
	Delete(ctx context.Context, id int) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// assigneesInIDOrder keeps the resolved assignee list deterministic.
func assigneesInIDOrder(db *gorm.DB) *gorm.DB {
	return db.Order("employees.id ASC")
}

// Create inserts a task together with its assignment rows in one
// transaction. A missing employee id aborts the whole creation, so no
// task row is ever left behind with a dangling assignee reference.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, assigneeIDs []int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignees").Create(task).Error; err != nil {
			return err
		}

		task.Assignees = []model.Employee{}
		if len(assigneeIDs) == 0 {
			return nil
		}

		emps, err := employeesByIDs(tx, assigneeIDs)
		if err != nil {
			return err
		}

		for _, e := range emps {
			if err := tx.Exec(
				"INSERT INTO task_assignees (task_id, employee_id) VALUES (?, ?)",
				task.ID, e.ID,
			).Error; err != nil {
				return err
			}
		}

		task.Assignees = emps
		return nil
	})
}

// GetByID retrieves a task by its ID with assignees attached
func (r *TaskRepository) GetByID(ctx context.Context, id int) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Assignees", assigneesInIDOrder).
		First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// List retrieves tasks matching the filter in board display order:
// status, then position ascending, then creation time ascending.
// The assignee filter goes through the assignment relation, not a
// denormalized column.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).
		Preload("Assignees", assigneesInIDOrder).
		Order("status, position ASC, created_at ASC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssigneeID != 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = tasks.id AND ta.employee_id = ?)",
			filter.AssigneeID,
		)
	}

	var tasks []model.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves the task row and, when assigneeIDs is non-nil, replaces
// the entire assignment set. Row update and link replacement run in one
// transaction so readers never observe a half-replaced set. A nil
// assigneeIDs leaves the links untouched.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, assigneeIDs *[]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit("Assignees").Save(task)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}

		if assigneeIDs == nil {
			return nil
		}

		if err := tx.Exec("DELETE FROM task_assignees WHERE task_id = ?", task.ID).Error; err != nil {
			return err
		}

		task.Assignees = []model.Employee{}
		if len(*assigneeIDs) == 0 {
			return nil
		}

		emps, err := employeesByIDs(tx, *assigneeIDs)
		if err != nil {
			return err
		}

		for _, e := range emps {
			if err := tx.Exec(
				"INSERT INTO task_assignees (task_id, employee_id) VALUES (?, ?)",
				task.ID, e.ID,
			).Error; err != nil {
				return err
			}
		}

		task.Assignees = emps
		return nil
	})
}

// UpdateStatus changes only the status column (and updated_at). Narrower
// than Update, used by drag-and-drop between columns.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID. Assignment rows go with it via the
// ON DELETE CASCADE constraint on task_assignees.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// employeesByIDs resolves the requested employee ids inside tx, ordered
// by id. Any id that does not exist fails the lookup with
// ErrEmployeeNotFound so the surrounding transaction rolls back.
func employeesByIDs(tx *gorm.DB, ids []int) ([]model.Employee, error) {
	var emps []model.Employee
	if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&emps).Error; err != nil {
		return nil, err
	}
	if len(emps) != len(ids) {
		return nil, ErrEmployeeNotFound
	}
	return emps, nil
}
