package report

import (
	"github.com/sekolahku/attendance-backend-go/internal/pkg/validator"
)

// AggregateStats is a derived view over a set of attendance records. It is
// never persisted; every consumer recomputes it from the ledger.
type AggregateStats struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Sick    int `json:"sick"`
	Leave   int `json:"leave"`
	Pending int `json:"pending"`
	Total   int `json:"total"`

	// AttendanceRate is present/total*100, rounded half-up to 2 decimals.
	// Zero when Total is zero.
	AttendanceRate float64 `json:"attendance_rate"`
}

// PeriodStats is one bucket of a day/week/month grouping. Buckets with no
// records are present with all-zero stats so report consumers see a
// complete calendar.
type PeriodStats struct {
	Period    string         `json:"period"` // 2006-01-02 | 2006-W02 | 2006-01
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Stats     AggregateStats `json:"stats"`
}

// ========================================
// REPORT REQUESTS
// ========================================

type ClassReportRequest struct {
	ClassID   string `json:"class_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (r *ClassReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClassID) {
		errs = append(errs, validator.ValidationError{
			Field:   "class_id",
			Message: "class_id is required",
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

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StudentReportRequest struct {
	StudentID string `json:"student_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	GroupBy   string `json:"group_by"` // day | week | month
}

func (r *StudentReportRequest) Validate() error {
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

	if r.GroupBy == "" {
		r.GroupBy = "day" // Default grouping
	}
	if !validator.IsInSlice(r.GroupBy, []string{"day", "week", "month"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "group_by",
			Message: "group_by must be one of: day, week, month",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// REPORT ROWS
// ========================================

// ClassReportRow is one exportable row: roster display fields joined onto
// aggregated stats. Document rendering (PDF/Excel) happens outside.
type ClassReportRow struct {
	StudentID   string         `json:"student_id"`
	StudentName string         `json:"student_name"`
	NIS         string         `json:"nis"`
	NISN        *string        `json:"nisn,omitempty"`
	ClassName   string         `json:"class_name"`
	Stats       AggregateStats `json:"stats"`
}

type ClassReport struct {
	ClassID     string           `json:"class_id"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	GeneratedAt string           `json:"generated_at"`
	Rows        []ClassReportRow `json:"rows"`

	// Totals are computed from the same dataset through the same rounding
	// path as the rows, so the two never disagree beyond rounding error.
	Totals AggregateStats `json:"totals"`
}

type StudentReport struct {
	StudentID   string        `json:"student_id"`
	StudentName string        `json:"student_name"`
	NIS         string        `json:"nis"`
	NISN        *string       `json:"nisn,omitempty"`
	ClassName   string        `json:"class_name"`
	PeriodStart string        `json:"period_start"`
	PeriodEnd   string        `json:"period_end"`
	GroupBy     string        `json:"group_by"`
	GeneratedAt string        `json:"generated_at"`
	Periods     []PeriodStats `json:"periods"`
	Totals      AggregateStats `json:"totals"`
}
