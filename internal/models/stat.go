package models

// DashboardStats summarises the back-office queues.
type DashboardStats struct {
	Contacts        StatusCounts `json:"contacts"`
	ServiceRequests StatusCounts `json:"serviceRequests"`
	Feedback        StatusCounts `json:"feedback"`
	PendingTotal    int          `json:"pendingTotal"`
}
