package leave

import (
	"github.com/sekolahku/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type SubmitLeaveRequest struct {
	StudentID string `json:"student_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, inclusive
	Reason    string `json:"reason"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StudentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "student_id",
			Message: "student_id is required",
		})
	}

	start, startValid := validator.IsValidDate(r.StartDate)
	if !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endValid := validator.IsValidDate(r.EndDate)
	if !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startValid && endValid && start.After(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must not be after end_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DecideLeaveRequest settles a pending request. Outcome is terminal.
type DecideLeaveRequest struct {
	ID        string `json:"-"`
	DecidedBy string `json:"-"`
	Outcome   string `json:"outcome"` // approved | rejected
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Outcome, []string{"approved", "rejected"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "outcome",
			Message: "outcome must be one of: approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	StudentName *string `json:"student_name,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	ApprovedBy  *string `json:"approved_by,omitempty"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
	SubmittedAt string  `json:"submitted_at"`

	// Days materialized into the attendance ledger on approval. Days that
	// already carried a record are counted in SkippedDays instead.
	MaterializedDays int `json:"materialized_days,omitempty"`
	SkippedDays      int `json:"skipped_days,omitempty"`
}

type LeaveRequestFilter struct {
	StudentID *string `json:"student_id,omitempty"`
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{"pending", "approved", "rejected"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}
