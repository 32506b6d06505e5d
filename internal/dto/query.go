package dto

import (
	"time"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// RaiseQueryRequest defines the payload for raising a query on a program.
type RaiseQueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// AnswerQueryRequest defines the payload for answering a query.
type AnswerQueryRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// AddRemarkRequest defines the payload for appending a remark.
type AddRemarkRequest struct {
	Text string `json:"text" binding:"required"`
}

// QueryResponse defines the data returned for a query.
type QueryResponse struct {
	QueryID    string     `json:"queryID"`
	ProgramID  string     `json:"programID"`
	Question   string     `json:"question"`
	RaisedBy   string     `json:"raisedBy"`
	RaisedAt   time.Time  `json:"raisedAt"`
	Answered   bool       `json:"answered"`
	Answer     string     `json:"answer,omitempty"`
	AnsweredBy string     `json:"answeredBy,omitempty"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
}

// RemarkResponse defines the data returned for a remark.
type RemarkResponse struct {
	RemarkID   string          `json:"remarkID"`
	ProgramID  string          `json:"programID"`
	Text       string          `json:"text"`
	AuthorID   string          `json:"authorID"`
	AuthorRole domain.UserRole `json:"authorRole"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ToQueryResponse converts a domain.Query to QueryResponse DTO
func ToQueryResponse(q *domain.Query) QueryResponse {
	return QueryResponse{
		QueryID:    q.QueryID,
		ProgramID:  q.ProgramID,
		Question:   q.Question,
		RaisedBy:   q.RaisedBy,
		RaisedAt:   q.RaisedAt,
		Answered:   q.Answered,
		Answer:     q.Answer,
		AnsweredBy: q.AnsweredBy,
		AnsweredAt: q.AnsweredAt,
	}
}

// ToQueryResponses converts a slice of domain.Query to response DTOs.
func ToQueryResponses(queries []domain.Query) []QueryResponse {
	out := make([]QueryResponse, len(queries))
	for i := range queries {
		out[i] = ToQueryResponse(&queries[i])
	}
	return out
}

// ToRemarkResponse converts a domain.Remark to RemarkResponse DTO
func ToRemarkResponse(r *domain.Remark) RemarkResponse {
	return RemarkResponse{
		RemarkID:   r.RemarkID,
		ProgramID:  r.ProgramID,
		Text:       r.Text,
		AuthorID:   r.AuthorID,
		AuthorRole: r.AuthorRole,
		CreatedAt:  r.CreatedAt,
	}
}

// ToRemarkResponses converts a slice of domain.Remark to response DTOs.
func ToRemarkResponses(remarks []domain.Remark) []RemarkResponse {
	out := make([]RemarkResponse, len(remarks))
	for i := range remarks {
		out[i] = ToRemarkResponse(&remarks[i])
	}
	return out
}
