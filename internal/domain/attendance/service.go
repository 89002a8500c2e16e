package attendance

import "context"

// AttendanceService is the ledger surface the HTTP layer and the leave
// workflow consume. Every precondition is checked before any write
// (validate-then-write); a failed call never leaves partial state.
type AttendanceService interface {
	// Record writes one manual entry for a student-day.
	Record(ctx context.Context, req RecordRequest) (AttendanceResponse, error)

	// RecordBulk writes one roll-call submission atomically. An empty input
	// is valid and returns an empty slice.
	RecordBulk(ctx context.Context, req BulkRecordRequest) ([]AttendanceResponse, error)

	// CheckIn is the student self-service shortcut: status=present, check-in now.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut stamps check_out_time on today's record.
	CheckOut(ctx context.Context, recordID string) (AttendanceResponse, error)

	// Correct applies a partial update to an existing record.
	Correct(ctx context.Context, req CorrectRequest) (AttendanceResponse, error)

	// Get returns a single record by id.
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// List queries records ordered by date then student id.
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// Delete removes a record (admin only). Leave requests are untouched.
	Delete(ctx context.Context, id string) error
}
