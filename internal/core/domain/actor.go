package domain

// Actor identifies who is driving an operation. The role is always
// passed explicitly into service calls; it is never read from ambient
// session state inside the engine.
type Actor struct {
	UserID string
	Role   UserRole
}
