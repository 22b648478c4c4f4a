package models

import "time"

// Report statuses. A report starts pending and is resolved by an admin.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
	ReportStatusActioned  = "actioned"
)

// Report target types.
const (
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
	ReportTargetUser    = "user"
)

// Report is a user-filed content report.
type Report struct {
	ID         int       `db:"id" json:"id"`
	ReporterID int       `db:"reporter_id" json:"reporter_id"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   int       `db:"target_id" json:"target_id"`
	Reason     string    `db:"reason" json:"reason"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Verification request statuses.
const (
	VerificationStatusPending  = "pending"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// VerificationRequest is a user's request for the verified badge.
type VerificationRequest struct {
	ID         int        `db:"id" json:"id"`
	UserID     int        `db:"user_id" json:"user_id"`
	Note       string     `db:"note" json:"note"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ReviewedAt *time.Time `db:"reviewed_at" json:"reviewed_at"`
	ReviewerID *int       `db:"reviewer_id" json:"reviewer_id"`
}
