package attendance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sekolahku/attendance-backend-go/internal/domain/attendance"
	"github.com/sekolahku/attendance-backend-go/internal/domain/roster"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/database"
	"github.com/sekolahku/attendance-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	roster.RosterRepository
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	rosterRepo roster.RosterRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		RosterRepository:     rosterRepo,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("15:04:05")
	return &format
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           att.ID,
		StudentID:    att.StudentID,
		StudentName:  att.StudentName,
		ClassID:      att.ClassID,
		ClassName:    att.ClassName,
		Date:         att.Date.Format("2006-01-02"),
		Status:       string(att.Status),
		CheckInTime:  timePtrToString(att.CheckIn),
		CheckOutTime: timePtrToString(att.CheckOut),
		Notes:        att.Notes,
		RecordedBy:   att.RecordedBy,
		CreatedAt:    att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// checkPreconditions runs every roster check a single record needs:
// membership of the student in the class, and the recorder's assignment to
// it when the recorder is a teacher. Admins may record for any class.
func (a *AttendanceServiceImpl) checkPreconditions(ctx context.Context, studentID, classID, recorderID, recorderRole string) error {
	classExists, err := a.RosterRepository.ClassExists(ctx, classID)
	if err != nil {
		return fmt.Errorf("failed to check class existence: %w", err)
	}
	if !classExists {
		return roster.ErrClassNotFound
	}

	studentExists, err := a.RosterRepository.StudentExists(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to check student existence: %w", err)
	}
	if !studentExists {
		return roster.ErrStudentNotFound
	}

	belongs, err := a.RosterRepository.StudentBelongsToClass(ctx, studentID, classID)
	if err != nil {
		return fmt.Errorf("failed to check class membership: %w", err)
	}
	if !belongs {
		return roster.ErrStudentNotInClass
	}

	if recorderRole == "teacher" {
		assigned, err := a.RosterRepository.TeacherAssignedToClass(ctx, recorderID, classID)
		if err != nil {
			return fmt.Errorf("failed to check teacher assignment: %w", err)
		}
		if !assigned {
			return roster.ErrTeacherNotAssigned
		}
	}

	return nil
}

// buildAttendance converts a validated RecordRequest into an entity. Times
// are wall-clock values paired with the record's date.
func buildAttendance(req attendance.RecordRequest, recordedBy string) (attendance.Attendance, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to parse date: %w", err)
	}

	att := attendance.Attendance{
		StudentID:  req.StudentID,
		ClassID:    req.ClassID,
		Date:       date,
		Status:     attendance.Status(strings.ToLower(req.Status)),
		Notes:      req.Notes,
		RecordedBy: recordedBy,
	}

	if req.CheckInTime != nil && *req.CheckInTime != "" {
		t, err := combineDateAndTime(date, *req.CheckInTime)
		if err != nil {
			return attendance.Attendance{}, err
		}
		att.CheckIn = &t
	}

	if req.CheckOutTime != nil && *req.CheckOutTime != "" {
		t, err := combineDateAndTime(date, *req.CheckOutTime)
		if err != nil {
			return attendance.Attendance{}, err
		}
		att.CheckOut = &t
	}

	return att, nil
}

func combineDateAndTime(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		t, err = time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse time of day: %w", err)
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

func recorderFromContext(ctx context.Context) (userID string, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	role, ok = claims["role"].(string)
	if !ok || role == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return userID, role, nil
}

// studentClaimFromContext returns the student_id claim, empty when absent.
// Only student tokens carry it.
func studentClaimFromContext(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}

	studentID, _ := claims["student_id"].(string)
	return studentID
}

// Record implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Record(ctx context.Context, req attendance.RecordRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, role, err := recorderFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := a.checkPreconditions(ctx, req.StudentID, req.ClassID, userID, role); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	data, err := buildAttendance(req, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := a.AttendanceRepository.Create(ctx, data)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(created), nil
}

// RecordBulk implements attendance.AttendanceService. One roll-call
// submission must not leave the class half-recorded: the whole batch is
// validated before any write, and the writes share one transaction.
func (a *AttendanceServiceImpl) RecordBulk(ctx context.Context, req attendance.BulkRecordRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Empty roll-call is the identity case, not an error.
	if len(req.Records) == 0 {
		return []attendance.AttendanceResponse{}, nil
	}

	userID, role, err := recorderFromContext(ctx)
	if err != nil {
		return nil, err
	}

	entities := make([]attendance.Attendance, 0, len(req.Records))
	for i := range req.Records {
		item := req.Records[i]
		if err := a.checkPreconditions(ctx, item.StudentID, item.ClassID, userID, role); err != nil {
			return nil, fmt.Errorf("record %d (student %s): %w", i, item.StudentID, err)
		}

		data, err := buildAttendance(item, userID)
		if err != nil {
			return nil, fmt.Errorf("record %d (student %s): %w", i, item.StudentID, err)
		}
		entities = append(entities, data)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(entities))
	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		for i := range entities {
			created, err := a.AttendanceRepository.Create(txCtx, entities[i])
			if err != nil {
				return fmt.Errorf("record %d (student %s): %w", i, entities[i].StudentID, err)
			}
			responses = append(responses, mapAttendanceToResponse(created))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return responses, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, role, err := recorderFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// A student token may only check in the student it was issued for.
	if role == "student" && studentClaimFromContext(ctx) != req.StudentID {
		return attendance.AttendanceResponse{}, attendance.ErrNotOwnStudent
	}

	if err := a.checkPreconditions(ctx, req.StudentID, req.ClassID, userID, role); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := a.AttendanceRepository.GetByStudentAndDate(ctx, req.StudentID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	data := attendance.Attendance{
		StudentID:  req.StudentID,
		ClassID:    req.ClassID,
		Date:       today,
		Status:     attendance.StatusPresent,
		CheckIn:    &now,
		RecordedBy: userID,
	}

	created, err := a.AttendanceRepository.Create(ctx, data)
	if err != nil {
		// Racing a duplicate self-check-in resolves via the unique index.
		if err == attendance.ErrAlreadyRecorded {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, recordID string) (attendance.AttendanceResponse, error) {
	att, err := a.AttendanceRepository.GetByID(ctx, recordID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !att.Date.Equal(today) {
		return attendance.AttendanceResponse{}, attendance.ErrNotTodayRecord
	}

	if att.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	att.CheckOut = &now
	if err := a.AttendanceRepository.Update(ctx, att); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.AttendanceRepository.GetByID(ctx, recordID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance: %w", err)
	}

	return mapAttendanceToResponse(updated), nil
}

// Correct implements attendance.AttendanceService. Partial-update
// semantics: nil means untouched, an empty time string clears the column.
func (a *AttendanceServiceImpl) Correct(ctx context.Context, req attendance.CorrectRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Status != nil {
		att.Status = attendance.Status(strings.ToLower(*req.Status))
	}

	if req.CheckInTime != nil {
		if *req.CheckInTime == "" {
			att.CheckIn = nil
		} else {
			t, err := combineDateAndTime(att.Date, *req.CheckInTime)
			if err != nil {
				return attendance.AttendanceResponse{}, err
			}
			att.CheckIn = &t
		}
	}

	if req.CheckOutTime != nil {
		if *req.CheckOutTime == "" {
			att.CheckOut = nil
		} else {
			t, err := combineDateAndTime(att.Date, *req.CheckOutTime)
			if err != nil {
				return attendance.AttendanceResponse{}, err
			}
			att.CheckOut = &t
		}
	}

	if req.Notes != nil {
		att.Notes = req.Notes
	}

	if err := a.AttendanceRepository.Update(ctx, att); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance: %w", err)
	}

	return mapAttendanceToResponse(updated), nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(att), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// Delete implements attendance.AttendanceService. Administrative removal
// only; the originating leave request, if any, is left as is.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if err := a.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}

	return nil
}
