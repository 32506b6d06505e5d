package domain

// DashboardSummary holds the per-user (or system-wide) counts shown on
// the dashboard. Pending collapses every status that is neither
// payment-completed nor rejected, so Total = Completed + Rejected + Pending.
type DashboardSummary struct {
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Rejected  int       `json:"rejected"`
	Pending   int       `json:"pending"`
	Recent    []Program `json:"recent"` // newest first, capped at 5
}
