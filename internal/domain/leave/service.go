package leave

import "context"

// LeaveService is the leave-request workflow: a pending request is decided
// exactly once; approval materializes leave records into the attendance
// ledger without ever overwriting an existing observation.
type LeaveService interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, id string) (LeaveRequestResponse, error)
	List(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
