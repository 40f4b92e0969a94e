package user

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"  // Organization admin - full access
	RolePastor Role = "pastor" // Pastoral staff - attendance, analytics, messaging
	RoleLeader Role = "leader" // Group/cell leader - manual check-in, follow-up
	RoleMember Role = "member" // Regular member
)

type User struct {
	ID           string
	Email        string
	PasswordHash *string
	FirstName    string
	LastName     string
	Phone        *string
	Role         Role
	IsActive     bool
	JoinedAt     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns the member's display name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin checks if user is an organization admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLeader checks if user holds any leadership role
func (u *User) IsLeader() bool {
	return u.Role == RoleLeader || u.Role == RolePastor || u.Role == RoleAdmin
}
