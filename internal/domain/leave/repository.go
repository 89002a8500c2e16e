package leave

import "context"

// LeaveRequestRepository defines data access for leave requests.
type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	// GetByID returns ErrLeaveRequestNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// UpdateDecision writes status, approved_by and approved_at. It only
	// matches rows still in pending status and returns
	// ErrLeaveAlreadyProcessed otherwise, so a raced second decision loses.
	UpdateDecision(ctx context.Context, req LeaveRequest) error

	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
}
