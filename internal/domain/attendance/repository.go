package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records. Every
// insert goes through the (student_id, date) unique index; concurrent
// writers for the same key resolve to exactly one winner and the loser
// observes ErrAlreadyRecorded.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrAlreadyRecorded on a
	// (student_id, date) unique violation.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// CreateSkipExisting inserts with ON CONFLICT DO NOTHING semantics and
	// reports whether a row was written. Used by leave materialization so
	// an existing observation is never overwritten.
	CreateSkipExisting(ctx context.Context, att Attendance) (Attendance, bool, error)

	// GetByID retrieves a record with student/class display fields joined.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByStudentAndDate retrieves the record for one student-day, nil if absent.
	GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*Attendance, error)

	// Update rewrites the mutable columns (status, check_in, check_out, notes).
	Update(ctx context.Context, att Attendance) error

	// List retrieves records matching the filter, ordered by date ascending
	// then student id, with pagination.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// Delete removes a record. Administrative use only; leave requests are
	// not touched.
	Delete(ctx context.Context, id string) error
}
