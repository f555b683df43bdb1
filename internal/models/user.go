package models

import "time"

// System-level (global) roles stored on the user record itself.
// Distinct from task-scoped roles in member.go.
const (
	SystemRoleUser  = "user"
	SystemRoleAdmin = "global-admin"
)

// ValidSystemRole reports whether role is one of the known global roles.
func ValidSystemRole(role string) bool {
	return role == SystemRoleUser || role == SystemRoleAdmin
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"fullName"`
	Avatar       string    `db:"avatar" json:"avatar"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// PublicUser is the whitelisted subset of User that may be embedded in
// projections. Full User records never cross a join boundary.
type PublicUser struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	FullName string `db:"full_name" json:"fullName"`
	Avatar   string `db:"avatar" json:"avatar"`
}

// MemberUser extends PublicUser with the contact address, surfaced only in
// member listings.
type MemberUser struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	FullName string `db:"full_name" json:"fullName"`
	Avatar   string `db:"avatar" json:"avatar"`
	Email    string `db:"email" json:"email"`
}

// Public returns the whitelisted projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}
