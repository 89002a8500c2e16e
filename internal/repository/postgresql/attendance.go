package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sekolahku/attendance-backend-go/internal/domain/attendance"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			student_id, class_id, date, status, check_in, check_out, notes, recorded_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.StudentID,
		att.ClassID,
		att.Date,
		att.Status,
		att.CheckIn,
		att.CheckOut,
		att.Notes,
		att.RecordedBy,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// CreateSkipExisting implements attendance.AttendanceRepository.
// The ON CONFLICT DO NOTHING clause makes leave materialization idempotent
// and non-destructive: a pre-existing observation for the day always wins.
func (a *attendanceRepository) CreateSkipExisting(ctx context.Context, att attendance.Attendance) (attendance.Attendance, bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			student_id, class_id, date, status, check_in, check_out, notes, recorded_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (student_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.StudentID,
		att.ClassID,
		att.Date,
		att.Status,
		att.CheckIn,
		att.CheckOut,
		att.Notes,
		att.RecordedBy,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, false, nil
		}
		return attendance.Attendance{}, false, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, true, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT
			a.id, a.student_id, a.class_id, a.date, a.status,
			a.check_in, a.check_out, a.notes, a.recorded_by,
			a.created_at, a.updated_at,
			s.name AS student_name,
			c.name AS class_name
		FROM attendances a
		LEFT JOIN students s ON s.id = a.student_id
		LEFT JOIN classes c ON c.id = a.class_id
		WHERE a.id = $1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, id).Scan(
		&att.ID, &att.StudentID, &att.ClassID, &att.Date, &att.Status,
		&att.CheckIn, &att.CheckOut, &att.Notes, &att.RecordedBy,
		&att.CreatedAt, &att.UpdatedAt,
		&att.StudentName, &att.ClassName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByStudentAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, student_id, class_id, date, status,
			   check_in, check_out, notes, recorded_by,
			   created_at, updated_at
		FROM attendances
		WHERE student_id = $1
		  AND date = $2
		LIMIT 1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, studentID, date).Scan(
		&att.ID, &att.StudentID, &att.ClassID, &att.Date, &att.Status,
		&att.CheckIn, &att.CheckOut, &att.Notes, &att.RecordedBy,
		&att.CreatedAt, &att.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by student and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository. The service applies
// partial-update semantics on a loaded record; here all mutable columns
// are rewritten so that fields can also be cleared to NULL.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET status = $1, check_in = $2, check_out = $3, notes = $4, updated_at = $5
		WHERE id = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		att.Status, att.CheckIn, att.CheckOut, att.Notes, time.Now(), att.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.ClassID != nil && *filter.ClassID != "" {
		baseWhere += fmt.Sprintf(" AND a.class_id = $%d", argIdx)
		args = append(args, *filter.ClassID)
		argIdx++
	}

	if filter.StudentID != nil && *filter.StudentID != "" {
		baseWhere += fmt.Sprintf(" AND a.student_id = $%d", argIdx)
		args = append(args, *filter.StudentID)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			a.id, a.student_id, a.class_id, a.date, a.status,
			a.check_in, a.check_out, a.notes, a.recorded_by,
			a.created_at, a.updated_at,
			s.name AS student_name,
			c.name AS class_name
		FROM attendances a
		LEFT JOIN students s ON s.id = a.student_id
		LEFT JOIN classes c ON c.id = a.class_id
		WHERE %s
		ORDER BY a.date ASC, a.student_id ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.StudentID, &att.ClassID, &att.Date, &att.Status,
			&att.CheckIn, &att.CheckOut, &att.Notes, &att.RecordedBy,
			&att.CreatedAt, &att.UpdatedAt,
			&att.StudentName, &att.ClassName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	query := `DELETE FROM attendances WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
