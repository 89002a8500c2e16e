package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sekolahku/attendance-backend-go/internal/domain/leave"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

// Create implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_requests (
			student_id, start_date, end_date, reason, status, submitted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.StudentID,
		req.StartDate,
		req.EndDate,
		req.Reason,
		req.Status,
		req.SubmittedAt,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT
			lr.id, lr.student_id, lr.start_date, lr.end_date, lr.reason,
			lr.status, lr.approved_by, lr.approved_at, lr.submitted_at,
			lr.created_at, lr.updated_at,
			s.name AS student_name
		FROM leave_requests lr
		LEFT JOIN students s ON s.id = lr.student_id
		WHERE lr.id = $1
	`

	var req leave.LeaveRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.StudentID, &req.StartDate, &req.EndDate, &req.Reason,
		&req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.SubmittedAt,
		&req.CreatedAt, &req.UpdatedAt,
		&req.StudentName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	return req, nil
}

// UpdateDecision implements leave.LeaveRequestRepository. The WHERE clause
// only matches pending rows, so two racing deciders resolve to exactly one
// winner and the loser sees ErrLeaveAlreadyProcessed.
func (l *leaveRequestRepository) UpdateDecision(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_requests
		SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'pending'
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, req.Status, req.ApprovedBy, req.ApprovedAt, req.ID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveAlreadyProcessed
		}
		return fmt.Errorf("failed to update leave request: %w", err)
	}

	return nil
}

// List implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, l.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.StudentID != nil && *filter.StudentID != "" {
		baseWhere += fmt.Sprintf(" AND lr.student_id = $%d", argIdx)
		args = append(args, *filter.StudentID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND lr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM leave_requests lr WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			lr.id, lr.student_id, lr.start_date, lr.end_date, lr.reason,
			lr.status, lr.approved_by, lr.approved_at, lr.submitted_at,
			lr.created_at, lr.updated_at,
			s.name AS student_name
		FROM leave_requests lr
		LEFT JOIN students s ON s.id = lr.student_id
		WHERE %s
		ORDER BY lr.submitted_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var req leave.LeaveRequest
		err := rows.Scan(
			&req.ID, &req.StudentID, &req.StartDate, &req.EndDate, &req.Reason,
			&req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.SubmittedAt,
			&req.CreatedAt, &req.UpdatedAt,
			&req.StudentName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, nil
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}
