package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"plantspace/internal/models"
)

var (
	ErrReportNotFound       = errors.New("report not found")
	ErrVerificationNotFound = errors.New("verification request not found")
	ErrVerificationPending  = errors.New("verification request already pending")
)

// ModerationRepository abstracts report and verification persistence.
type ModerationRepository interface {
	CreateReport(ctx context.Context, reporterID int, targetType string, targetID int, reason string) (models.Report, error)
	ListReports(ctx context.Context, status string, offset, limit int) ([]models.Report, error)
	UpdateReportStatus(ctx context.Context, reportID int, status string) (models.Report, error)

	CreateVerificationRequest(ctx context.Context, userID int, note string) (models.VerificationRequest, error)
	ListVerificationRequests(ctx context.Context, status string, offset, limit int) ([]models.VerificationRequest, error)
	ResolveVerificationRequest(ctx context.Context, requestID, reviewerID int, status string) (models.VerificationRequest, error)
}

// ModerationRepo is a sqlx implementation of ModerationRepository.
type ModerationRepo struct {
	db *sqlx.DB
}

// NewModerationRepo constructs a ModerationRepo.
func NewModerationRepo(db *sqlx.DB) *ModerationRepo {
	return &ModerationRepo{db: db}
}

const reportColumns = `id, reporter_id, target_type, target_id, reason, status, created_at, updated_at`

// CreateReport files a new report in pending state.
func (r *ModerationRepo) CreateReport(ctx context.Context, reporterID int, targetType string, targetID int, reason string) (models.Report, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report,
		`INSERT INTO reports (reporter_id, target_type, target_id, reason)
         VALUES ($1, $2, $3, $4) RETURNING `+reportColumns,
		reporterID, targetType, targetID, reason)
	return report, err
}

// ListReports returns reports, optionally filtered by status, newest first.
func (r *ModerationRepo) ListReports(ctx context.Context, status string, offset, limit int) ([]models.Report, error) {
	var reports []models.Report
	if status == "" {
		err := r.db.SelectContext(ctx, &reports,
			`SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
			offset, limit)
		return reports, err
	}
	err := r.db.SelectContext(ctx, &reports,
		`SELECT `+reportColumns+` FROM reports WHERE status=$1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		status, offset, limit)
	return reports, err
}

// UpdateReportStatus transitions a report and returns the fresh row.
func (r *ModerationRepo) UpdateReportStatus(ctx context.Context, reportID int, status string) (models.Report, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report,
		`UPDATE reports SET status=$2, updated_at=NOW() WHERE id=$1 RETURNING `+reportColumns,
		reportID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, ErrReportNotFound
	}
	return report, err
}

const verificationColumns = `id, user_id, note, status, created_at, reviewed_at, reviewer_id`

// CreateVerificationRequest files a request unless one is already pending.
func (r *ModerationRepo) CreateVerificationRequest(ctx context.Context, userID int, note string) (models.VerificationRequest, error) {
	var pending bool
	if err := r.db.GetContext(ctx, &pending,
		`SELECT EXISTS(SELECT 1 FROM verification_requests WHERE user_id=$1 AND status='pending')`,
		userID); err != nil {
		return models.VerificationRequest{}, err
	}
	if pending {
		return models.VerificationRequest{}, ErrVerificationPending
	}

	var req models.VerificationRequest
	err := r.db.GetContext(ctx, &req,
		`INSERT INTO verification_requests (user_id, note) VALUES ($1, $2) RETURNING `+verificationColumns,
		userID, note)
	return req, err
}

// ListVerificationRequests returns requests, optionally filtered by status.
func (r *ModerationRepo) ListVerificationRequests(ctx context.Context, status string, offset, limit int) ([]models.VerificationRequest, error) {
	var reqs []models.VerificationRequest
	if status == "" {
		err := r.db.SelectContext(ctx, &reqs,
			`SELECT `+verificationColumns+` FROM verification_requests ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
			offset, limit)
		return reqs, err
	}
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT `+verificationColumns+` FROM verification_requests WHERE status=$1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		status, offset, limit)
	return reqs, err
}

// ResolveVerificationRequest stamps the reviewer decision on a pending request.
func (r *ModerationRepo) ResolveVerificationRequest(ctx context.Context, requestID, reviewerID int, status string) (models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.GetContext(ctx, &req,
		`UPDATE verification_requests SET status=$2, reviewed_at=NOW(), reviewer_id=$3
         WHERE id=$1 AND status='pending' RETURNING `+verificationColumns,
		requestID, status, reviewerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VerificationRequest{}, ErrVerificationNotFound
	}
	return req, err
}
