package domain

import "time"

// Query is a question a reviewer raises against a program. At most one
// query per program may be unanswered at a time; once answered it is
// immutable.
type Query struct {
	QueryID   string    `json:"queryID"`
	ProgramID string    `json:"programID"`
	Question  string    `json:"question"`
	RaisedBy  string    `json:"raisedBy"` // UserID Reference
	RaisedAt  time.Time `json:"raisedAt"`

	// Answer fields are set if and only if Answered is true.
	Answered   bool       `json:"answered"`
	Answer     string     `json:"answer,omitempty"`
	AnsweredBy string     `json:"answeredBy,omitempty"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
}

// Remark is a free-form comment on a program. Remarks may be added in
// any status and are never edited or deleted.
type Remark struct {
	RemarkID   string    `json:"remarkID"`
	ProgramID  string    `json:"programID"`
	Text       string    `json:"text"`
	AuthorID   string    `json:"authorID"`
	AuthorRole UserRole  `json:"authorRole"`
	CreatedAt  time.Time `json:"createdAt"`
}
