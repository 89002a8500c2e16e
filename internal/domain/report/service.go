package report

import "context"

// ReportService assembles exportable report rows from ledger data and
// roster display info. It owns no business rules beyond the join; all
// counting and percentage math lives in the aggregation functions.
type ReportService interface {
	// ClassReport produces one row per enrolled student over a date range.
	ClassReport(ctx context.Context, req ClassReportRequest) (ClassReport, error)

	// StudentReport produces period buckets (day/week/month) for one student.
	StudentReport(ctx context.Context, req StudentReportRequest) (StudentReport, error)
}
