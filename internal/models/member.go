package models

import "time"

// TaskRole is a task-scoped permission level, distinct from the global
// role on the user record.
type TaskRole string

const (
	TaskRoleAdmin  TaskRole = "admin"
	TaskRoleMember TaskRole = "member"

	// TaskRoleNone means the actor has no membership on the task.
	TaskRoleNone TaskRole = ""
)

// ValidTaskRole reports whether role can be stored on a membership.
func ValidTaskRole(role TaskRole) bool {
	return role == TaskRoleAdmin || role == TaskRoleMember
}

// TaskMember binds a user to a task with a role. At most one record may
// exist per (task, user) pair; the storage layer enforces this with a
// composite unique index rather than an application-level existence check.
type TaskMember struct {
	ID     string   `db:"id" json:"id"`
	TaskID string   `db:"task_id" json:"taskId"`
	UserID string   `db:"user_id" json:"userId"`
	Role   TaskRole `db:"role" json:"role"`

	// Username is a denormalized display cache populated at write time and
	// refreshed when the user's handle changes. May be empty on records
	// written before the cache existed; cmd/reconcile backfills those.
	Username string `db:"username" json:"username"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TaskMemberInfo is the member-listing projection: the membership joined
// with the whitelisted user fields.
type TaskMemberInfo struct {
	TaskID    string     `json:"taskId"`
	Role      TaskRole   `json:"role"`
	User      MemberUser `json:"user"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
