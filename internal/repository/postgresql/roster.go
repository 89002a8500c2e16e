package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sekolahku/attendance-backend-go/internal/domain/roster"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/database"
)

// rosterRepository is the read-only implementation of the roster provider.
// Student/class/teacher CRUD is owned by the surrounding admin service and
// never mutated from here.
type rosterRepository struct {
	db *database.DB
}

// StudentExists implements roster.RosterRepository.
func (r *rosterRepository) StudentExists(ctx context.Context, studentID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}

	return exists, nil
}

// ClassExists implements roster.RosterRepository.
func (r *rosterRepository) ClassExists(ctx context.Context, classID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, classID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check class existence: %w", err)
	}

	return exists, nil
}

// StudentBelongsToClass implements roster.RosterRepository.
func (r *rosterRepository) StudentBelongsToClass(ctx context.Context, studentID string, classID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM students
			WHERE id = $1
			  AND class_id = $2
		)
	`

	var belongs bool
	if err := q.QueryRow(ctx, query, studentID, classID).Scan(&belongs); err != nil {
		return false, fmt.Errorf("failed to check class membership: %w", err)
	}

	return belongs, nil
}

// TeacherAssignedToClass implements roster.RosterRepository.
func (r *rosterRepository) TeacherAssignedToClass(ctx context.Context, teacherID string, classID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM teacher_classes
			WHERE teacher_id = $1
			  AND class_id = $2
		)
	`

	var assigned bool
	if err := q.QueryRow(ctx, query, teacherID, classID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("failed to check teacher assignment: %w", err)
	}

	return assigned, nil
}

// ClassOfStudent implements roster.RosterRepository.
func (r *rosterRepository) ClassOfStudent(ctx context.Context, studentID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var classID string
	err := q.QueryRow(ctx, `SELECT class_id FROM students WHERE id = $1`, studentID).Scan(&classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", roster.ErrStudentNotFound
		}
		return "", fmt.Errorf("failed to get class of student: %w", err)
	}

	return classID, nil
}

// StudentDisplayInfo implements roster.RosterRepository.
func (r *rosterRepository) StudentDisplayInfo(ctx context.Context, studentID string) (roster.StudentInfo, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.name, s.nis, s.nisn, s.class_id, c.name AS class_name
		FROM students s
		LEFT JOIN classes c ON c.id = s.class_id
		WHERE s.id = $1
	`

	var info roster.StudentInfo
	err := q.QueryRow(ctx, query, studentID).Scan(
		&info.ID, &info.Name, &info.NIS, &info.NISN, &info.ClassID, &info.ClassName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roster.StudentInfo{}, roster.ErrStudentNotFound
		}
		return roster.StudentInfo{}, fmt.Errorf("failed to get student display info: %w", err)
	}

	return info, nil
}

// StudentsOfClass implements roster.RosterRepository.
func (r *rosterRepository) StudentsOfClass(ctx context.Context, classID string) ([]roster.StudentInfo, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.name, s.nis, s.nisn, s.class_id, c.name AS class_name
		FROM students s
		LEFT JOIN classes c ON c.id = s.class_id
		WHERE s.class_id = $1
		ORDER BY s.name ASC
	`

	rows, err := q.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query class students: %w", err)
	}
	defer rows.Close()

	var students []roster.StudentInfo
	for rows.Next() {
		var info roster.StudentInfo
		err := rows.Scan(&info.ID, &info.Name, &info.NIS, &info.NISN, &info.ClassID, &info.ClassName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, info)
	}

	return students, nil
}

func NewRosterRepository(db *database.DB) roster.RosterRepository {
	return &rosterRepository{db: db}
}
