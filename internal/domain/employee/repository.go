package employee

import "context"

// EmployeeRepository defines data access for roster subjects.
type EmployeeRepository interface {
	// GetByID retrieves an employee. Returns ErrEmployeeNotFound when
	// missing.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns every employee currently on the roster.
	ListActive(ctx context.Context) ([]Employee, error)
}
