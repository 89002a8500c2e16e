package leave

import "time"

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest is a student's application to be excused for a contiguous
// date range. Once decided the record is immutable.
type LeaveRequest struct {
	ID        string
	StudentID string

	StartDate time.Time
	EndDate   time.Time
	Reason    string

	Status     LeaveRequestStatus
	ApprovedBy *string
	ApprovedAt *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for responses
	StudentName *string
}
