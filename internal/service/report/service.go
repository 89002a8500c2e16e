package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sekolahku/attendance-backend-go/internal/domain/attendance"
	"github.com/sekolahku/attendance-backend-go/internal/domain/report"
	"github.com/sekolahku/attendance-backend-go/internal/domain/roster"
)

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	roster.RosterRepository
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	rosterRepo roster.RosterRepository,
) report.ReportService {
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepo,
		RosterRepository:     rosterRepo,
	}
}

// fetchRange pulls every record matching the filter in one page. Report
// ranges are bounded (a school year of one class is a few thousand rows).
func (r *ReportServiceImpl) fetchRange(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	filter.Page = 1
	filter.Limit = 500

	var all []attendance.Attendance
	for {
		records, total, err := r.AttendanceRepository.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to query attendance range: %w", err)
		}
		all = append(all, records...)
		if int64(len(all)) >= total || len(records) == 0 {
			return all, nil
		}
		filter.Page++
	}
}

// ClassReport implements report.ReportService. One row per enrolled
// student, including students with no records in range (all-zero stats),
// plus a totals row computed from the same dataset.
func (r *ReportServiceImpl) ClassReport(ctx context.Context, req report.ClassReportRequest) (report.ClassReport, error) {
	if err := req.Validate(); err != nil {
		return report.ClassReport{}, err
	}

	exists, err := r.RosterRepository.ClassExists(ctx, req.ClassID)
	if err != nil {
		return report.ClassReport{}, fmt.Errorf("failed to check class existence: %w", err)
	}
	if !exists {
		return report.ClassReport{}, roster.ErrClassNotFound
	}

	students, err := r.RosterRepository.StudentsOfClass(ctx, req.ClassID)
	if err != nil {
		return report.ClassReport{}, err
	}

	records, err := r.fetchRange(ctx, attendance.AttendanceFilter{
		ClassID:   &req.ClassID,
		StartDate: &req.StartDate,
		EndDate:   &req.EndDate,
	})
	if err != nil {
		return report.ClassReport{}, err
	}

	byStudent := GroupByStudent(records)

	rows := make([]report.ClassReportRow, 0, len(students))
	for _, student := range students {
		rows = append(rows, report.ClassReportRow{
			StudentID:   student.ID,
			StudentName: student.Name,
			NIS:         student.NIS,
			NISN:        student.NISN,
			ClassName:   student.ClassName,
			Stats:       Summarize(byStudent[student.ID]),
		})
	}

	return report.ClassReport{
		ClassID:     req.ClassID,
		PeriodStart: req.StartDate,
		PeriodEnd:   req.EndDate,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
		Rows:        rows,
		Totals:      Summarize(records),
	}, nil
}

// StudentReport implements report.ReportService.
func (r *ReportServiceImpl) StudentReport(ctx context.Context, req report.StudentReportRequest) (report.StudentReport, error) {
	if err := req.Validate(); err != nil {
		return report.StudentReport{}, err
	}

	info, err := r.RosterRepository.StudentDisplayInfo(ctx, req.StudentID)
	if err != nil {
		return report.StudentReport{}, err
	}

	records, err := r.fetchRange(ctx, attendance.AttendanceFilter{
		StudentID: &req.StudentID,
		StartDate: &req.StartDate,
		EndDate:   &req.EndDate,
	})
	if err != nil {
		return report.StudentReport{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	var periods []report.PeriodStats
	switch req.GroupBy {
	case "week":
		periods = GroupByWeek(records, start, end)
	case "month":
		periods = GroupByMonth(records, start, end)
	default:
		periods = GroupByDay(records, start, end)
	}

	return report.StudentReport{
		StudentID:   info.ID,
		StudentName: info.Name,
		NIS:         info.NIS,
		NISN:        info.NISN,
		ClassName:   info.ClassName,
		PeriodStart: req.StartDate,
		PeriodEnd:   req.EndDate,
		GroupBy:     req.GroupBy,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
		Periods:     periods,
		Totals:      Summarize(records),
	}, nil
}
