package roster

import "errors"

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrClassNotFound      = errors.New("class not found")
	ErrStudentNotInClass  = errors.New("student is not enrolled in this class")
	ErrTeacherNotAssigned = errors.New("teacher is not assigned to this class")
)
