package attendance

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/sekolahku/attendance-backend-go/internal/domain/attendance"
	"github.com/sekolahku/attendance-backend-go/internal/domain/roster"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/database"
	"github.com/sekolahku/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAttendanceDB *database.DB

const testSecret = "test-secret-key-for-jwt"

func attendanceTestInit(t *testing.T) {
	if testAttendanceDB != nil {
		return
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	var err error
	testAttendanceDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatal("Failed to connect to test database: " + err.Error())
	}
}

func truncateAttendanceTables(t *testing.T, ctx context.Context) {
	tables := []string{"attendances", "leave_requests", "teacher_classes", "students", "classes"}

	for _, table := range tables {
		_, err := testAttendanceDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			continue
		}
	}
}

func createTestClass(t *testing.T, ctx context.Context) string {
	var classID string
	err := testAttendanceDB.QueryRow(ctx, `
		INSERT INTO classes (name, created_at, updated_at)
		VALUES ('7A', NOW(), NOW())
		RETURNING id
	`).Scan(&classID)
	require.NoError(t, err)
	return classID
}

func createTestStudent(t *testing.T, ctx context.Context, classID string) string {
	var studentID string
	nis := fmt.Sprintf("%d", time.Now().UnixNano()%1e12)
	err := testAttendanceDB.QueryRow(ctx, `
		INSERT INTO students (name, nis, class_id, created_at, updated_at)
		VALUES ('Test Student', $1, $2, NOW(), NOW())
		RETURNING id
	`, nis, classID).Scan(&studentID)
	require.NoError(t, err)
	return studentID
}

func assignTestTeacher(t *testing.T, ctx context.Context, teacherID, classID string) {
	_, err := testAttendanceDB.Exec(ctx, `
		INSERT INTO teacher_classes (teacher_id, class_id, created_at)
		VALUES ($1, $2, NOW())
	`, teacherID, classID)
	require.NoError(t, err)
}

// claimsContext builds a context carrying verified claims, the same shape
// the Verifier middleware produces.
func claimsContext(t *testing.T, userID, role string) context.Context {
	ja := jwtauth.New("HS256", []byte(testSecret), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// studentClaimsContext builds a student token context carrying the
// student_id claim the identity service issues alongside user_id.
func studentClaimsContext(t *testing.T, userID, studentID string) context.Context {
	ja := jwtauth.New("HS256", []byte(testSecret), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    userID,
		"role":       "student",
		"type":       "access",
		"student_id": studentID,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestAttendanceService() attendance.AttendanceService {
	attendanceRepo := postgresql.NewAttendanceRepository(testAttendanceDB)
	rosterRepo := postgresql.NewRosterRepository(testAttendanceDB)
	return NewAttendanceService(testAttendanceDB, attendanceRepo, rosterRepo)
}

func countAttendances(t *testing.T, ctx context.Context) int {
	var n int
	err := testAttendanceDB.QueryRow(ctx, "SELECT COUNT(*) FROM attendances").Scan(&n)
	require.NoError(t, err)
	return n
}

func TestAttendanceService_Record_Success(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)
	adminID := uuid.NewString()

	svc := newTestAttendanceService()
	ctx = claimsContext(t, adminID, "admin")

	checkIn := "07:15:00"
	resp, err := svc.Record(ctx, attendance.RecordRequest{
		StudentID:   studentID,
		ClassID:     classID,
		Date:        "2024-09-02",
		Status:      "present",
		CheckInTime: &checkIn,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, "2024-09-02", resp.Date)
	assert.Equal(t, adminID, resp.RecordedBy)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "07:15:00", *resp.CheckInTime)
}

func TestAttendanceService_Record_DuplicateDay(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	req := attendance.RecordRequest{
		StudentID: studentID,
		ClassID:   classID,
		Date:      "2024-09-02",
		Status:    "present",
	}

	_, err := svc.Record(ctx, req)
	require.NoError(t, err)

	// Second record for the same student-day must lose to the unique index.
	req.Status = "absent"
	_, err = svc.Record(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyRecorded)
}

func TestAttendanceService_Record_TeacherNotAssigned(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "teacher")

	_, err := svc.Record(ctx, attendance.RecordRequest{
		StudentID: studentID,
		ClassID:   classID,
		Date:      "2024-09-02",
		Status:    "present",
	})

	assert.ErrorIs(t, err, roster.ErrTeacherNotAssigned)
}

func TestAttendanceService_Record_AssignedTeacher(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)
	teacherID := uuid.NewString()
	assignTestTeacher(t, ctx, teacherID, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, teacherID, "teacher")

	resp, err := svc.Record(ctx, attendance.RecordRequest{
		StudentID: studentID,
		ClassID:   classID,
		Date:      "2024-09-02",
		Status:    "sick",
	})

	require.NoError(t, err)
	assert.Equal(t, "sick", resp.Status)
}

func TestAttendanceService_Record_StudentNotInClass(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	otherClassID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	_, err := svc.Record(ctx, attendance.RecordRequest{
		StudentID: studentID,
		ClassID:   otherClassID,
		Date:      "2024-09-02",
		Status:    "present",
	})

	assert.ErrorIs(t, err, roster.ErrStudentNotInClass)
}

func TestAttendanceService_RecordBulk_AllOrNothing(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	student1 := createTestStudent(t, ctx, classID)
	student2 := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	// Pre-existing record for student2 on the target day.
	_, err := svc.Record(ctx, attendance.RecordRequest{
		StudentID: student2,
		ClassID:   classID,
		Date:      "2024-09-02",
		Status:    "sick",
	})
	require.NoError(t, err)
	before := countAttendances(t, ctx)

	_, err = svc.RecordBulk(ctx, attendance.BulkRecordRequest{
		Records: []attendance.RecordRequest{
			{StudentID: student1, ClassID: classID, Date: "2024-09-02", Status: "present"},
			{StudentID: student2, ClassID: classID, Date: "2024-09-02", Status: "present"},
		},
	})

	// The duplicate fails the batch, and the first insert is rolled back.
	assert.ErrorIs(t, err, attendance.ErrAlreadyRecorded)
	assert.Equal(t, before, countAttendances(t, ctx))
}

func TestAttendanceService_RecordBulk_Success(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	student1 := createTestStudent(t, ctx, classID)
	student2 := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	responses, err := svc.RecordBulk(ctx, attendance.BulkRecordRequest{
		Records: []attendance.RecordRequest{
			{StudentID: student1, ClassID: classID, Date: "2024-09-02", Status: "present"},
			{StudentID: student2, ClassID: classID, Date: "2024-09-02", Status: "absent"},
		},
	})

	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, 2, countAttendances(t, ctx))
}

func TestAttendanceService_RecordBulk_Empty(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	responses, err := svc.RecordBulk(ctx, attendance.BulkRecordRequest{})

	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestAttendanceService_CheckIn_ThenCheckOut(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		StudentID: studentID,
		ClassID:   classID,
	})
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
	require.NotNil(t, resp.CheckInTime)
	assert.Nil(t, resp.CheckOutTime)

	// Second check-in the same day conflicts.
	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{
		StudentID: studentID,
		ClassID:   classID,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	out, err := svc.CheckOut(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, out.CheckOutTime)

	_, err = svc.CheckOut(ctx, resp.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceService_CheckIn_StudentSelfOnly(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	student1 := createTestStudent(t, ctx, classID)
	student2 := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()

	// A student token is bound to one student and cannot check in another.
	otherCtx := studentClaimsContext(t, uuid.NewString(), student2)
	_, err := svc.CheckIn(otherCtx, attendance.CheckInRequest{
		StudentID: student1,
		ClassID:   classID,
	})
	assert.ErrorIs(t, err, attendance.ErrNotOwnStudent)

	ownCtx := studentClaimsContext(t, uuid.NewString(), student1)
	resp, err := svc.CheckIn(ownCtx, attendance.CheckInRequest{
		StudentID: student1,
		ClassID:   classID,
	})
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
}

func TestAttendanceService_CheckOut_NotTodayRecord(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	resp, err := svc.Record(ctx, attendance.RecordRequest{
		StudentID: studentID,
		ClassID:   classID,
		Date:      "2024-09-02",
		Status:    "present",
	})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, resp.ID)
	assert.ErrorIs(t, err, attendance.ErrNotTodayRecord)
}

func TestAttendanceService_Correct_PartialUpdate(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	checkIn := "07:15:00"
	created, err := svc.Record(ctx, attendance.RecordRequest{
		StudentID:   studentID,
		ClassID:     classID,
		Date:        "2024-09-02",
		Status:      "present",
		CheckInTime: &checkIn,
	})
	require.NoError(t, err)

	// Only the status is supplied; the check-in time stays untouched.
	newStatus := "sick"
	updated, err := svc.Correct(ctx, attendance.CorrectRequest{
		ID:     created.ID,
		Status: &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, "sick", updated.Status)
	require.NotNil(t, updated.CheckInTime)
	assert.Equal(t, "07:15:00", *updated.CheckInTime)

	// An empty time string clears the column.
	cleared := ""
	updated, err = svc.Correct(ctx, attendance.CorrectRequest{
		ID:          created.ID,
		CheckInTime: &cleared,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CheckInTime)
	assert.Equal(t, "sick", updated.Status)
}

func TestAttendanceService_Correct_NotFound(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	newStatus := "sick"
	_, err := svc.Correct(ctx, attendance.CorrectRequest{
		ID:     uuid.NewString(),
		Status: &newStatus,
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_List_FiltersAndPaginates(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	student1 := createTestStudent(t, ctx, classID)
	student2 := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	for _, date := range []string{"2024-09-02", "2024-09-03", "2024-09-04"} {
		for _, sid := range []string{student1, student2} {
			_, err := svc.Record(ctx, attendance.RecordRequest{
				StudentID: sid,
				ClassID:   classID,
				Date:      date,
				Status:    "present",
			})
			require.NoError(t, err)
		}
	}

	studentFilter := student1
	result, err := svc.List(ctx, attendance.AttendanceFilter{
		StudentID: &studentFilter,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
	require.Len(t, result.Attendances, 3)
	// Ordered by date ascending.
	assert.Equal(t, "2024-09-02", result.Attendances[0].Date)
	assert.Equal(t, "2024-09-04", result.Attendances[2].Date)

	start, end := "2024-09-03", "2024-09-03"
	result, err = svc.List(ctx, attendance.AttendanceFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)

	result, err = svc.List(ctx, attendance.AttendanceFilter{Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(6), result.TotalCount)
	assert.Len(t, result.Attendances, 4)
	assert.Equal(t, 2, result.TotalPages)
}

func TestAttendanceService_Delete(t *testing.T) {
	attendanceTestInit(t)
	ctx := context.Background()
	truncateAttendanceTables(t, ctx)

	classID := createTestClass(t, ctx)
	studentID := createTestStudent(t, ctx, classID)

	svc := newTestAttendanceService()
	ctx = claimsContext(t, uuid.NewString(), "admin")

	created, err := svc.Record(ctx, attendance.RecordRequest{
		StudentID: studentID,
		ClassID:   classID,
		Date:      "2024-09-02",
		Status:    "present",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}
