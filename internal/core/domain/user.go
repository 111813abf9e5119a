package domain

import (
	"strings"
	"time"
)

// UserRole is the application-wide role of a user.
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleFacilitator UserRole = "facilitator"
	RoleSupervisor  UserRole = "supervisor"
	RoleMember      UserRole = "member"
)

// ParseUserRole normalises role spellings, including the legacy animator/animateur forms.
func ParseUserRole(s string) (UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "facilitator", "animator", "animateur":
		return RoleFacilitator, true
	case "supervisor":
		return RoleSupervisor, true
	case "member", "membre", "":
		return RoleMember, true
	default:
		return "", false
	}
}

// UserStatus is whether a user may take part in group activity.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User represents a person using the system. Users in the member role are the
// savers and borrowers of AVEC groups.
type User struct {
	UserID                 int64      `json:"userID" db:"user_id"`
	Username               string     `json:"username" db:"username"`
	Email                  string     `json:"email" db:"email"`
	FirstName              string     `json:"firstName" db:"first_name"`
	LastName               string     `json:"lastName" db:"last_name"`
	Phone                  string     `json:"phone" db:"phone"`
	Village                string     `json:"village" db:"village"`
	Role                   UserRole   `json:"role" db:"role"`
	Status                 UserStatus `json:"status" db:"status"`
	PasswordHash           *string    `json:"-" db:"password_hash"`
	GoogleID               *string    `json:"-" db:"google_id"`
	RefreshTokenHash       *string    `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry"`
	AuditFields
}

// FullName joins first and last names, falling back to the username.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsActive reports whether the user can join groups and transact.
func (u User) IsActive() bool {
	return u.Status == UserActive
}

// Actor is the authenticated caller of a core operation. It is passed
// explicitly to every service method instead of being read from a session.
type Actor struct {
	UserID int64
	Role   UserRole
}

// Is reports whether the actor holds any of the given roles.
func (a Actor) Is(roles ...UserRole) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// GoogleUserInfo holds the fields read from a verified Google ID token.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}
