package employee

import "time"

type Employee struct {
	ID        string
	Code      string
	Name      string
	Position  *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
