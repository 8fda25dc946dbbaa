package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/database"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/timeofday"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepository{db: db}
}

// ListByEmployeeAndDate implements attendance.PunchRepository.
//
// Punch times are stored as the raw device text. Rows whose time no
// longer parses are dropped from the ledger with a warning instead of
// failing the whole day.
func (p *punchRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Ledger, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT punch_time, punch_type, location
		FROM punches
		WHERE employee_id = $1
		  AND date = $2
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var ledger attendance.Ledger
	for rows.Next() {
		var (
			rawTime   string
			punchType string
			location  *string
		)
		if err := rows.Scan(&rawTime, &punchType, &location); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}

		tod, err := timeofday.Parse(rawTime)
		if err != nil {
			slog.Warn("dropping punch with unparseable time",
				"employee_id", employeeID,
				"date", date.Format("2006-01-02"),
				"raw_time", rawTime,
			)
			continue
		}

		ledger = append(ledger, attendance.Punch{
			Time:     tod,
			Type:     attendance.PunchType(punchType),
			Location: location,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read punches: %w", err)
	}

	return ledger.SortedByTime(), nil
}

// Append implements attendance.PunchRepository.
func (p *punchRepository) Append(ctx context.Context, employeeID string, date time.Time, punch attendance.Punch) error {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO punches (id, employee_id, date, punch_time, punch_type, location)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query, uuid.NewString(), employeeID, date, punch.Time.String(), string(punch.Type), punch.Location)
	if err != nil {
		return fmt.Errorf("failed to append punch: %w", err)
	}

	return nil
}

// ReplaceForDate implements attendance.PunchRepository. The delete and
// the inserts commit together or not at all.
func (p *punchRepository) ReplaceForDate(ctx context.Context, employeeID string, date time.Time, punches attendance.Ledger) error {
	return WithTransaction(ctx, p.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM punches WHERE employee_id = $1 AND date = $2`,
			employeeID, date,
		); err != nil {
			return fmt.Errorf("failed to clear ledger: %w", err)
		}

		for _, punch := range punches {
			if _, err := tx.Exec(ctx,
				`INSERT INTO punches (id, employee_id, date, punch_time, punch_type, location)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.NewString(), employeeID, date, punch.Time.String(), string(punch.Type), punch.Location,
			); err != nil {
				return fmt.Errorf("failed to insert punch: %w", err)
			}
		}

		return nil
	})
}

// ListOpenDays implements attendance.PunchRepository.
func (p *punchRepository) ListOpenDays(ctx context.Context, from, to time.Time) ([]attendance.OpenDay, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT employee_id, date
		FROM punches
		WHERE date >= $1 AND date < $2
		GROUP BY employee_id, date
		HAVING count(*) FILTER (WHERE punch_type = 'in') > count(*) FILTER (WHERE punch_type = 'out')
		ORDER BY date, employee_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list open days: %w", err)
	}
	defer rows.Close()

	var days []attendance.OpenDay
	for rows.Next() {
		var day attendance.OpenDay
		if err := rows.Scan(&day.EmployeeID, &day.Date); err != nil {
			return nil, fmt.Errorf("failed to scan open day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read open days: %w", err)
	}

	return days, nil
}
