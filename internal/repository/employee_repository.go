package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

type EmployeeRepository struct {
	db *gorm.DB
}

type EmployeeRepositoryInterface interface {
	Create(ctx context.Context, employee *model.Employee) error
	List(ctx context.Context) ([]model.Employee, error)
	GetByID(ctx context.Context, id int) (*model.Employee, error)
	Delete(ctx context.Context, id int) error
}

var _ EmployeeRepositoryInterface = (*EmployeeRepository)(nil)

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

// List returns all employees ordered by name.
func (r *EmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// Delete removes an employee. Its assignment rows are dropped by the
// ON DELETE CASCADE constraint; tasks stay, losing that assignee.
func (r *EmployeeRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&model.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
