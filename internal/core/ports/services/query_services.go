package services

import (
	"context"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// QuerySvcFacade manages reviewer queries and free-form remarks on programs.
type QuerySvcFacade interface {
	// RaiseQuery records a new unanswered query. Only one query may be
	// outstanding per program; raising from UNDER_REVIEW also moves the
	// program into QUERY.
	RaiseQuery(ctx context.Context, programID string, question string, actor domain.Actor) (*domain.Query, error)

	// AnswerQuery records the answer on an unanswered query. When the
	// program sits in QUERY and no unanswered queries remain, it moves the
	// program to QUERY_ANSWERED.
	AnswerQuery(ctx context.Context, queryID string, answer string, actor domain.Actor) (*domain.Query, error)

	// AddRemark appends a remark; permitted in every status.
	AddRemark(ctx context.Context, programID string, text string, actor domain.Actor) (*domain.Remark, error)

	// ListQueries returns a program's queries, oldest first.
	ListQueries(ctx context.Context, programID string, actor domain.Actor) ([]domain.Query, error)

	// ListRemarks returns a program's remarks, oldest first.
	ListRemarks(ctx context.Context, programID string, actor domain.Actor) ([]domain.Remark, error)
}
