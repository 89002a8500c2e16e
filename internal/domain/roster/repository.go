package roster

import "context"

// RosterRepository is the read-only view of student/class/teacher
// relationships. Class and student CRUD lives outside this service; the
// attendance core only validates against it.
type RosterRepository interface {
	StudentExists(ctx context.Context, studentID string) (bool, error)
	ClassExists(ctx context.Context, classID string) (bool, error)

	// StudentBelongsToClass reports whether the student is enrolled in the class.
	StudentBelongsToClass(ctx context.Context, studentID string, classID string) (bool, error)

	// TeacherAssignedToClass reports whether the teacher may record for the class.
	TeacherAssignedToClass(ctx context.Context, teacherID string, classID string) (bool, error)

	// ClassOfStudent returns the id of the student's current class.
	ClassOfStudent(ctx context.Context, studentID string) (string, error)

	// StudentDisplayInfo returns name, NIS/NISN and class name for report rows.
	StudentDisplayInfo(ctx context.Context, studentID string) (StudentInfo, error)

	// StudentsOfClass lists the enrolled students ordered by name.
	StudentsOfClass(ctx context.Context, classID string) ([]StudentInfo, error)
}
