package attendance

import "errors"

// Attendance domain errors
var (
	// Write-path errors
	ErrAlreadyRecorded   = errors.New("attendance for this student and date already exists")
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrNotTodayRecord    = errors.New("attendance record is not for today")
	ErrNotOwnStudent     = errors.New("students may only check in for themselves")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
