package response

import (
	"errors"
	"net/http"

	"github.com/sekolahku/attendance-backend-go/internal/domain/attendance"
	"github.com/sekolahku/attendance-backend-go/internal/domain/leave"
	"github.com/sekolahku/attendance-backend-go/internal/domain/roster"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Roster domain errors
	case errors.Is(err, roster.ErrStudentNotFound):
		NotFound(w, "Student not found")
	case errors.Is(err, roster.ErrClassNotFound):
		NotFound(w, "Class not found")
	case errors.Is(err, roster.ErrStudentNotInClass):
		BadRequest(w, "Student is not enrolled in this class", nil)
	case errors.Is(err, roster.ErrTeacherNotAssigned):
		Forbidden(w, "Teacher is not assigned to this class")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyRecorded):
		Conflict(w, "Attendance already recorded for this student on this date")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Student already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Student already checked out today")
	case errors.Is(err, attendance.ErrNotTodayRecord):
		NotFound(w, "No attendance record for today")
	case errors.Is(err, attendance.ErrNotOwnStudent):
		Forbidden(w, "Students may only check in for themselves")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
