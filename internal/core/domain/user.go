package domain

import "time"

// UserRole is the system-wide role deciding which workflow edges a user may drive.
type UserRole string

const (
	// RoleApplicant submits programs and may send their own drafts for review.
	RoleApplicant UserRole = "APPLICANT"
	// RoleOfficer is the back-office reviewer owning every other workflow edge.
	RoleOfficer UserRole = "OFFICER"
	// RoleAdmin has officer powers plus user/budget administration.
	RoleAdmin UserRole = "ADMIN"
)

// IsStaff reports whether the role belongs to the reviewing back office.
func (r UserRole) IsStaff() bool {
	return r == RoleOfficer || r == RoleAdmin
}

// User represents a user of the application in the domain.
type User struct {
	UserID   string   `json:"userID"` // Primary Key (UUID)
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	PasswordHash           string     `json:"-"`
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}
