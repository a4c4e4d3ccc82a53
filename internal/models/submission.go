package models

// SubmissionStatus tracks staff handling of an inbound citizen submission.
type SubmissionStatus string

const (
	SubmissionStatusPending    SubmissionStatus = "pending"
	SubmissionStatusInProgress SubmissionStatus = "in_progress"
	SubmissionStatusResolved   SubmissionStatus = "resolved"
	SubmissionStatusClosed     SubmissionStatus = "closed"
)

var submissionStatuses = []SubmissionStatus{
	SubmissionStatusPending,
	SubmissionStatusInProgress,
	SubmissionStatusResolved,
	SubmissionStatusClosed,
}

// SubmissionStatuses returns every known status in workflow order.
func SubmissionStatuses() []SubmissionStatus {
	out := make([]SubmissionStatus, len(submissionStatuses))
	copy(out, submissionStatuses)
	return out
}

func (s SubmissionStatus) IsValid() bool {
	for _, known := range submissionStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// SubmissionUpdate carries an admin edit. Nil fields are left unchanged.
type SubmissionUpdate struct {
	Status     *SubmissionStatus
	Notes      *string
	AssignedTo *string
}

// SubmissionListOptions filters and paginates admin listings.
type SubmissionListOptions struct {
	Status SubmissionStatus
	Type   string
	Limit  int
	Offset int
}

// StatusCounts maps each status to the number of rows in it.
type StatusCounts map[SubmissionStatus]int

// Pending is a convenience accessor used by the dashboard.
func (c StatusCounts) Pending() int {
	return c[SubmissionStatusPending]
}
