package dto

import (
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// DashboardResponse carries the summary counts plus the recent programs list.
type DashboardResponse struct {
	Total     int               `json:"total"`
	Completed int               `json:"completed"`
	Rejected  int               `json:"rejected"`
	Pending   int               `json:"pending"`
	Recent    []ProgramResponse `json:"recent"`
}

// ToDashboardResponse converts a domain.DashboardSummary to its response DTO.
func ToDashboardResponse(s *domain.DashboardSummary) DashboardResponse {
	return DashboardResponse{
		Total:     s.Total,
		Completed: s.Completed,
		Rejected:  s.Rejected,
		Pending:   s.Pending,
		Recent:    ToProgramResponses(s.Recent),
	}
}
