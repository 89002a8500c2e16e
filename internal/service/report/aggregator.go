package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sekolahku/attendance-backend-go/internal/domain/attendance"
	"github.com/sekolahku/attendance-backend-go/internal/domain/report"
)

// round2 is the single rounding rule for every percentage in every report:
// half-up to 2 decimals. Keeping it in one place is what keeps per-row
// rates and totals from visibly disagreeing.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Summarize counts records per status and computes the attendance rate.
// An empty input yields zero stats, not an error.
func Summarize(records []attendance.Attendance) report.AggregateStats {
	var stats report.AggregateStats

	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent:
			stats.Present++
		case attendance.StatusAbsent:
			stats.Absent++
		case attendance.StatusSick:
			stats.Sick++
		case attendance.StatusLeave:
			stats.Leave++
		case attendance.StatusPending:
			stats.Pending++
		}
		stats.Total++
	}

	if stats.Total > 0 {
		stats.AttendanceRate = round2(float64(stats.Present) / float64(stats.Total) * 100)
	}

	return stats
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// startOfISOWeek walks back to the Monday of t's week.
func startOfISOWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// GroupByDay buckets records into calendar days over [start, end]. Days
// without records appear with all-zero stats so consumers see a complete
// calendar, not gaps.
func GroupByDay(records []attendance.Attendance, start, end time.Time) []report.PeriodStats {
	byKey := make(map[string][]attendance.Attendance)
	for _, rec := range records {
		key := dayKey(rec.Date)
		byKey[key] = append(byKey[key], rec)
	}

	var periods []report.PeriodStats
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := dayKey(day)
		periods = append(periods, report.PeriodStats{
			Period:    key,
			StartDate: key,
			EndDate:   key,
			Stats:     Summarize(byKey[key]),
		})
	}

	return periods
}

// GroupByWeek buckets records into ISO weeks covering [start, end].
func GroupByWeek(records []attendance.Attendance, start, end time.Time) []report.PeriodStats {
	byKey := make(map[string][]attendance.Attendance)
	for _, rec := range records {
		key := weekKey(rec.Date)
		byKey[key] = append(byKey[key], rec)
	}

	var periods []report.PeriodStats
	for weekStart := startOfISOWeek(start); !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
		weekEnd := weekStart.AddDate(0, 0, 6)

		// Clamp the reported bounds to the requested range.
		lo := weekStart
		if lo.Before(start) {
			lo = start
		}
		hi := weekEnd
		if hi.After(end) {
			hi = end
		}

		key := weekKey(weekStart)
		periods = append(periods, report.PeriodStats{
			Period:    key,
			StartDate: dayKey(lo),
			EndDate:   dayKey(hi),
			Stats:     Summarize(byKey[key]),
		})
	}

	return periods
}

// GroupByMonth buckets records into calendar months covering [start, end].
func GroupByMonth(records []attendance.Attendance, start, end time.Time) []report.PeriodStats {
	byKey := make(map[string][]attendance.Attendance)
	for _, rec := range records {
		key := monthKey(rec.Date)
		byKey[key] = append(byKey[key], rec)
	}

	var periods []report.PeriodStats
	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !monthStart.After(end) {
		monthEnd := monthStart.AddDate(0, 1, -1)

		lo := monthStart
		if lo.Before(start) {
			lo = start
		}
		hi := monthEnd
		if hi.After(end) {
			hi = end
		}

		key := monthKey(monthStart)
		periods = append(periods, report.PeriodStats{
			Period:    key,
			StartDate: dayKey(lo),
			EndDate:   dayKey(hi),
			Stats:     Summarize(byKey[key]),
		})

		monthStart = monthStart.AddDate(0, 1, 0)
	}

	return periods
}

// GroupByClass maps class id to stats over the records of that class.
func GroupByClass(records []attendance.Attendance) map[string]report.AggregateStats {
	byClass := make(map[string][]attendance.Attendance)
	for _, rec := range records {
		byClass[rec.ClassID] = append(byClass[rec.ClassID], rec)
	}

	result := make(map[string]report.AggregateStats, len(byClass))
	for classID, recs := range byClass {
		result[classID] = Summarize(recs)
	}

	return result
}

// GroupByStudent maps student id to that student's records, each slice
// ordered by date. Used by the class report to build per-student rows.
func GroupByStudent(records []attendance.Attendance) map[string][]attendance.Attendance {
	byStudent := make(map[string][]attendance.Attendance)
	for _, rec := range records {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}

	for _, recs := range byStudent {
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].Date.Before(recs[j].Date)
		})
	}

	return byStudent
}
