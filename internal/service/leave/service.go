package leave

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sekolahku/attendance-backend-go/internal/domain/attendance"
	"github.com/sekolahku/attendance-backend-go/internal/domain/leave"
	"github.com/sekolahku/attendance-backend-go/internal/domain/roster"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/database"
	"github.com/sekolahku/attendance-backend-go/internal/repository/postgresql"
)

type LeaveServiceImpl struct {
	db *database.DB
	leave.LeaveRequestRepository
	attendance.AttendanceRepository
	roster.RosterRepository
}

func NewLeaveService(
	db *database.DB,
	leaveRequestRepo leave.LeaveRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	rosterRepo roster.RosterRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:                     db,
		LeaveRequestRepository: leaveRequestRepo,
		AttendanceRepository:   attendanceRepo,
		RosterRepository:       rosterRepo,
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func mapLeaveRequestToResponse(req leave.LeaveRequest) leave.LeaveRequestResponse {
	return leave.LeaveRequestResponse{
		ID:          req.ID,
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		StartDate:   req.StartDate.Format("2006-01-02"),
		EndDate:     req.EndDate.Format("2006-01-02"),
		Reason:      req.Reason,
		Status:      string(req.Status),
		ApprovedBy:  req.ApprovedBy,
		ApprovedAt:  timePtrToString(req.ApprovedAt),
		SubmittedAt: req.SubmittedAt.Format("2006-01-02 15:04:05"),
	}
}

// Submit implements leave.LeaveService.
func (l *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	exists, err := l.RosterRepository.StudentExists(ctx, req.StudentID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check student existence: %w", err)
	}
	if !exists {
		return leave.LeaveRequestResponse{}, roster.ErrStudentNotFound
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}

	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	request := leave.LeaveRequest{
		StudentID:   req.StudentID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      req.Reason,
		Status:      leave.LeaveRequestStatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return mapLeaveRequestToResponse(created), nil
}

// Decide implements leave.LeaveService. A request transitions exactly once
// out of pending. Approval materializes one leave record per calendar day
// in the range; days that already carry a record are skipped, never
// overwritten, since the grant is retroactive bookkeeping, not an observation.
func (l *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	deciderID, ok := claims["user_id"].(string)
	if !ok || deciderID == "" {
		return leave.LeaveRequestResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}
	if req.DecidedBy == "" {
		req.DecidedBy = deciderID
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	decidedAt := time.Now().UTC()
	request.ApprovedBy = &req.DecidedBy
	request.ApprovedAt = &decidedAt

	if req.Outcome == "rejected" {
		request.Status = leave.LeaveRequestStatusRejected
		if err := l.LeaveRequestRepository.UpdateDecision(ctx, request); err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		return mapLeaveRequestToResponse(request), nil
	}

	request.Status = leave.LeaveRequestStatusApproved

	classID, err := l.RosterRepository.ClassOfStudent(ctx, request.StudentID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	notes := "Approved leave: " + request.Reason

	var materialized, skipped int
	err = postgresql.WithTransaction(ctx, l.db, func(txCtx context.Context) error {
		if err := l.LeaveRequestRepository.UpdateDecision(txCtx, request); err != nil {
			return err
		}

		for day := request.StartDate; !day.After(request.EndDate); day = day.AddDate(0, 0, 1) {
			record := attendance.Attendance{
				StudentID:  request.StudentID,
				ClassID:    classID,
				Date:       day,
				Status:     attendance.StatusLeave,
				Notes:      &notes,
				RecordedBy: req.DecidedBy,
			}

			_, inserted, err := l.AttendanceRepository.CreateSkipExisting(txCtx, record)
			if err != nil {
				return fmt.Errorf("failed to materialize leave for %s: %w", day.Format("2006-01-02"), err)
			}
			if inserted {
				materialized++
			} else {
				skipped++
			}
		}

		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	resp := mapLeaveRequestToResponse(request)
	resp.MaterializedDays = materialized
	resp.SkippedDays = skipped
	return resp, nil
}

// Get implements leave.LeaveService.
func (l *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return mapLeaveRequestToResponse(request), nil
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, mapLeaveRequestToResponse(req))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    totalPages,
		LeaveRequests: responses,
	}, nil
}
