package models

import "time"

// Query is the DB-facing shape of a reviewer question on a program.
type Query struct {
	QueryID    string     `db:"query_id"`
	ProgramID  string     `db:"program_id"`
	Question   string     `db:"question"`
	RaisedBy   string     `db:"raised_by"`
	RaisedAt   time.Time  `db:"raised_at"`
	Answered   bool       `db:"answered"`
	Answer     string     `db:"answer"`
	AnsweredBy string     `db:"answered_by"`
	AnsweredAt *time.Time `db:"answered_at"`
}

// Remark is the DB-facing shape of a free-form comment on a program.
type Remark struct {
	RemarkID   string    `db:"remark_id"`
	ProgramID  string    `db:"program_id"`
	Text       string    `db:"text"`
	AuthorID   string    `db:"author_id"`
	AuthorRole string    `db:"author_role"`
	CreatedAt  time.Time `db:"created_at"`
}
