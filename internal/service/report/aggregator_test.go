package report

import (
	"testing"
	"time"

	"github.com/sekolahku/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func record(studentID, date string, status attendance.Status) attendance.Attendance {
	return attendance.Attendance{
		StudentID: studentID,
		ClassID:   "class-1",
		Date:      day(date),
		Status:    status,
	}
}

func TestSummarize_CountsAndRate(t *testing.T) {
	records := []attendance.Attendance{
		record("s1", "2024-01-01", attendance.StatusPresent),
		record("s1", "2024-01-02", attendance.StatusPresent),
		record("s1", "2024-01-03", attendance.StatusPresent),
		record("s1", "2024-01-04", attendance.StatusSick),
		record("s1", "2024-01-05", attendance.StatusAbsent),
	}

	stats := Summarize(records)

	assert.Equal(t, 3, stats.Present)
	assert.Equal(t, 1, stats.Absent)
	assert.Equal(t, 1, stats.Sick)
	assert.Equal(t, 0, stats.Leave)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 60.0, stats.AttendanceRate)
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.AttendanceRate)
}

func TestSummarize_EveryStatusCounted(t *testing.T) {
	records := []attendance.Attendance{
		record("s1", "2024-01-01", attendance.StatusPresent),
		record("s1", "2024-01-02", attendance.StatusAbsent),
		record("s1", "2024-01-03", attendance.StatusSick),
		record("s1", "2024-01-04", attendance.StatusLeave),
		record("s1", "2024-01-05", attendance.StatusPending),
	}

	stats := Summarize(records)

	assert.Equal(t, 1, stats.Present)
	assert.Equal(t, 1, stats.Absent)
	assert.Equal(t, 1, stats.Sick)
	assert.Equal(t, 1, stats.Leave)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 20.0, stats.AttendanceRate)
}

func TestSummarize_RoundsHalfUp(t *testing.T) {
	// 1/3 -> 33.333... -> 33.33, 2/3 -> 66.666... -> 66.67
	records := []attendance.Attendance{
		record("s1", "2024-01-01", attendance.StatusPresent),
		record("s1", "2024-01-02", attendance.StatusAbsent),
		record("s1", "2024-01-03", attendance.StatusAbsent),
	}
	assert.Equal(t, 33.33, Summarize(records).AttendanceRate)

	records = []attendance.Attendance{
		record("s1", "2024-01-01", attendance.StatusPresent),
		record("s1", "2024-01-02", attendance.StatusPresent),
		record("s1", "2024-01-03", attendance.StatusAbsent),
	}
	assert.Equal(t, 66.67, Summarize(records).AttendanceRate)
}

func TestGroupByDay_ZeroFillsEmptyDays(t *testing.T) {
	records := []attendance.Attendance{
		record("s1", "2024-01-01", attendance.StatusPresent),
		record("s1", "2024-01-03", attendance.StatusSick),
	}

	periods := GroupByDay(records, day("2024-01-01"), day("2024-01-05"))

	require.Len(t, periods, 5)
	assert.Equal(t, "2024-01-01", periods[0].Period)
	assert.Equal(t, 1, periods[0].Stats.Present)
	assert.Equal(t, 0, periods[1].Stats.Total) // no record on the 2nd
	assert.Equal(t, 1, periods[2].Stats.Sick)
	assert.Equal(t, 0, periods[3].Stats.Total)
	assert.Equal(t, 0, periods[4].Stats.Total)
}

func TestGroupByWeek_ClampsBoundsToRange(t *testing.T) {
	// 2024-01-03 is a Wednesday; the range spans two ISO weeks.
	records := []attendance.Attendance{
		record("s1", "2024-01-03", attendance.StatusPresent),
		record("s1", "2024-01-08", attendance.StatusAbsent),
	}

	periods := GroupByWeek(records, day("2024-01-03"), day("2024-01-09"))

	require.Len(t, periods, 2)

	assert.Equal(t, "2024-W01", periods[0].Period)
	assert.Equal(t, "2024-01-03", periods[0].StartDate) // clamped, not Monday
	assert.Equal(t, "2024-01-07", periods[0].EndDate)
	assert.Equal(t, 1, periods[0].Stats.Present)

	assert.Equal(t, "2024-W02", periods[1].Period)
	assert.Equal(t, "2024-01-08", periods[1].StartDate)
	assert.Equal(t, "2024-01-09", periods[1].EndDate) // clamped, not Sunday
	assert.Equal(t, 1, periods[1].Stats.Absent)
}

func TestGroupByMonth_SpansMonths(t *testing.T) {
	records := []attendance.Attendance{
		record("s1", "2024-01-31", attendance.StatusPresent),
		record("s1", "2024-02-01", attendance.StatusPresent),
		record("s1", "2024-03-15", attendance.StatusLeave),
	}

	periods := GroupByMonth(records, day("2024-01-15"), day("2024-03-20"))

	require.Len(t, periods, 3)
	assert.Equal(t, "2024-01", periods[0].Period)
	assert.Equal(t, "2024-01-15", periods[0].StartDate)
	assert.Equal(t, "2024-01-31", periods[0].EndDate)
	assert.Equal(t, 1, periods[0].Stats.Present)

	assert.Equal(t, "2024-02", periods[1].Period)
	assert.Equal(t, 1, periods[1].Stats.Present)

	assert.Equal(t, "2024-03", periods[2].Period)
	assert.Equal(t, "2024-03-20", periods[2].EndDate)
	assert.Equal(t, 1, periods[2].Stats.Leave)
}

func TestGroupByClass(t *testing.T) {
	records := []attendance.Attendance{
		{StudentID: "s1", ClassID: "c1", Date: day("2024-01-01"), Status: attendance.StatusPresent},
		{StudentID: "s2", ClassID: "c1", Date: day("2024-01-01"), Status: attendance.StatusAbsent},
		{StudentID: "s3", ClassID: "c2", Date: day("2024-01-01"), Status: attendance.StatusPresent},
	}

	byClass := GroupByClass(records)

	require.Len(t, byClass, 2)
	assert.Equal(t, 2, byClass["c1"].Total)
	assert.Equal(t, 50.0, byClass["c1"].AttendanceRate)
	assert.Equal(t, 1, byClass["c2"].Total)
	assert.Equal(t, 100.0, byClass["c2"].AttendanceRate)
}

func TestGroupByStudent_SortsByDate(t *testing.T) {
	records := []attendance.Attendance{
		record("s1", "2024-01-03", attendance.StatusPresent),
		record("s1", "2024-01-01", attendance.StatusAbsent),
		record("s2", "2024-01-02", attendance.StatusSick),
	}

	byStudent := GroupByStudent(records)

	require.Len(t, byStudent, 2)
	require.Len(t, byStudent["s1"], 2)
	assert.Equal(t, day("2024-01-01"), byStudent["s1"][0].Date)
	assert.Equal(t, day("2024-01-03"), byStudent["s1"][1].Date)
}
