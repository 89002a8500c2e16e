package attendance

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sekolahku/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// RecordRequest is a teacher/admin manual entry for one student-day.
type RecordRequest struct {
	StudentID    string  `json:"student_id"`
	ClassID      string  `json:"class_id"`
	Date         string  `json:"date"` // YYYY-MM-DD
	Status       string  `json:"status"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // HH:MM:SS, only meaningful for present
	CheckOutTime *string `json:"check_out_time,omitempty"` // HH:MM:SS
	Notes        *string `json:"notes,omitempty"`
	RecordedBy   string  `json:"-"`
	RecorderRole string  `json:"-"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StudentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "student_id",
			Message: "student_id is required",
		})
	}

	if validator.IsEmpty(r.ClassID) {
		errs = append(errs, validator.ValidationError{
			Field:   "class_id",
			Message: "class_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsInSlice(strings.ToLower(r.Status), ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, sick, leave, pending",
		})
	}

	if r.CheckInTime != nil && *r.CheckInTime != "" {
		if _, valid := validator.IsValidTimeOfDay(*r.CheckInTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be in HH:MM:SS format",
			})
		}
	}

	if r.CheckOutTime != nil && *r.CheckOutTime != "" {
		if _, valid := validator.IsValidTimeOfDay(*r.CheckOutTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be in HH:MM:SS format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BulkRecordRequest is one roll-call submission: every student of a class
// for a single day. The batch is all-or-nothing.
type BulkRecordRequest struct {
	Records      []RecordRequest `json:"records"`
	RecordedBy   string          `json:"-"`
	RecorderRole string          `json:"-"`
}

func (r *BulkRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	for i := range r.Records {
		if err := r.Records[i].Validate(); err != nil {
			var itemErrs validator.ValidationErrors
			if errors.As(err, &itemErrs) {
				for _, e := range itemErrs {
					errs = append(errs, validator.ValidationError{
						Field:   "records[" + strconv.Itoa(i) + "]." + e.Field,
						Message: e.Message,
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CheckInRequest is the student self-service check-in for today.
type CheckInRequest struct {
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StudentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "student_id",
			Message: "student_id is required",
		})
	}

	if validator.IsEmpty(r.ClassID) {
		errs = append(errs, validator.ValidationError{
			Field:   "class_id",
			Message: "class_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CorrectRequest updates an existing record. A nil field is left untouched;
// an empty-string time field clears the column to NULL, which is how
// "supplied as null" is told apart from "not supplied".
type CorrectRequest struct {
	ID           string  `json:"-"`
	Status       *string `json:"status,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // HH:MM:SS, "" clears
	CheckOutTime *string `json:"check_out_time,omitempty"` // HH:MM:SS, "" clears
	Notes        *string `json:"notes,omitempty"`
}

func (r *CorrectRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !validator.IsInSlice(strings.ToLower(*r.Status), ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, sick, leave, pending",
		})
	}

	if r.CheckInTime != nil && *r.CheckInTime != "" {
		if _, valid := validator.IsValidTimeOfDay(*r.CheckInTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be in HH:MM:SS format",
			})
		}
	}

	if r.CheckOutTime != nil && *r.CheckOutTime != "" {
		if _, valid := validator.IsValidTimeOfDay(*r.CheckOutTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be in HH:MM:SS format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	StudentName  *string `json:"student_name,omitempty"`
	ClassID      string  `json:"class_id"`
	ClassName    *string `json:"class_name,omitempty"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	RecordedBy   string  `json:"recorded_by"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type AttendanceFilter struct {
	// Search & Filter
	ClassID   *string `json:"class_id,omitempty"`
	StudentID *string `json:"student_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
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
		f.Limit = 50 // Default limit
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, sick, leave, pending",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
