package models

import "time"

// ReportReason is the fixed set of reasons a comment can be reported for.
type ReportReason string

const (
	ReportReasonSpam          ReportReason = "spam"
	ReportReasonInappropriate ReportReason = "inappropriate"
	ReportReasonFake          ReportReason = "fake"
	ReportReasonCopyright     ReportReason = "copyright"
	ReportReasonOther         ReportReason = "other"
)

// ReportReasons lists every accepted reason in display order.
var ReportReasons = []ReportReason{
	ReportReasonSpam,
	ReportReasonInappropriate,
	ReportReasonFake,
	ReportReasonCopyright,
	ReportReasonOther,
}

// Valid reports whether r is one of ReportReasons.
func (r ReportReason) Valid() bool {
	for _, reason := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// ReportStatus tracks an abuse report through admin review.
type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "open"
	ReportStatusResolved ReportStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	return s == ReportStatusOpen || s == ReportStatusResolved
}

// Report is an abuse report referencing a comment.
type Report struct {
	ID          string       `json:"id" db:"id"`
	CommentID   string       `json:"comment_id" db:"comment_id"`
	ReporterID  string       `json:"reporter_id" db:"reporter_id"`
	Reason      ReportReason `json:"reason" db:"reason"`
	Description *string      `json:"description,omitempty" db:"description"`
	Status      ReportStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	ResolvedBy  *string      `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty" db:"resolved_at"`
}
