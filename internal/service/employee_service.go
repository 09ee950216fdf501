package service

import (
	"context"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type EmployeeService struct {
	employees repository.EmployeeRepositoryInterface
}

func NewEmployeeService(employees repository.EmployeeRepositoryInterface) *EmployeeService {
	return &EmployeeService{employees: employees}
}

// CreateEmployee adds an employee with a trimmed, non-empty name.
func (s *EmployeeService) CreateEmployee(ctx context.Context, name string) (*model.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		verr := &ValidationError{}
		verr.add("name", "is required")
		return nil, verr
	}

	employee := &model.Employee{Name: name}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return s.employees.List(ctx)
}

// DeleteEmployee removes an employee and cascades its assignment rows.
// Tasks that had only this employee assigned become unassigned, they
// are never deleted.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int) error {
	if id <= 0 {
		verr := &ValidationError{}
		verr.add("id", "must be a positive integer")
		return verr
	}
	return s.employees.Delete(ctx, id)
}
