package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/database"
)

type overrideRepository struct {
	db *database.DB
}

func NewOverrideRepository(db *database.DB) attendance.OverrideRepository {
	return &overrideRepository{db: db}
}

// GetByEmployeeAndDate implements attendance.OverrideRepository.
func (o *overrideRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Override, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		SELECT id, employee_id, date, status, notes, created_by, created_at, updated_at
		FROM attendance_overrides
		WHERE employee_id = $1
		  AND date = $2
	`

	var override attendance.Override
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&override.ID, &override.EmployeeID, &override.Date, &override.Status,
		&override.Notes, &override.CreatedBy, &override.CreatedAt, &override.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No override for this day
		}
		return nil, fmt.Errorf("failed to get override: %w", err)
	}

	return &override, nil
}

// Upsert implements attendance.OverrideRepository. Re-overriding a day
// replaces the previous status and notes in place.
func (o *overrideRepository) Upsert(ctx context.Context, override attendance.Override) (attendance.Override, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		INSERT INTO attendance_overrides (id, employee_id, date, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status     = EXCLUDED.status,
			notes      = EXCLUDED.notes,
			created_by = EXCLUDED.created_by,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		uuid.NewString(),
		override.EmployeeID,
		override.Date,
		string(override.Status),
		override.Notes,
		override.CreatedBy,
	).Scan(&override.ID, &override.CreatedAt, &override.UpdatedAt)

	if err != nil {
		return attendance.Override{}, fmt.Errorf("failed to upsert override: %w", err)
	}

	return override, nil
}

// Delete implements attendance.OverrideRepository.
func (o *overrideRepository) Delete(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, o.db)

	tag, err := q.Exec(ctx,
		`DELETE FROM attendance_overrides WHERE employee_id = $1 AND date = $2`,
		employeeID, date,
	)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrOverrideNotFound
	}

	return nil
}
