package repository

import "errors"

// Common repository errors
var (
	// ErrEmployeeNotFound is returned when an employee is not found
	ErrEmployeeNotFound = errors.New("employee not found")
)
