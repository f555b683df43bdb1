// internal/authz/policy.go
package authz

import (
	"context"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/models"
)

// Actor is the authenticated identity performing an operation: a stable
// user id plus the global role from the identity collaborator.
type Actor struct {
	ID       string
	Username string
	Role     string
}

// IsGlobalAdmin reports whether the actor holds the global admin role.
func (a Actor) IsGlobalAdmin() bool {
	return a.Role == models.SystemRoleAdmin
}

// MembershipStore is the single capability a policy needs from storage.
type MembershipStore interface {
	Find(ctx context.Context, taskID, userID string) (*models.TaskMember, error)
}

// Policy resolves an actor's effective role on a task. TaskRoleNone means
// the actor has no access; the caller cannot distinguish that from the task
// not existing, which is intentional.
type Policy interface {
	Resolve(ctx context.Context, actor Actor, taskID string) (models.TaskRole, error)
}

// MembershipPolicy is the strict variant: the membership record is the sole
// authority, the global role never grants task access.
type MembershipPolicy struct {
	members MembershipStore
}

func NewMembershipPolicy(members MembershipStore) *MembershipPolicy {
	return &MembershipPolicy{members: members}
}

func (p *MembershipPolicy) Resolve(ctx context.Context, actor Actor, taskID string) (models.TaskRole, error) {
	m, err := p.members.Find(ctx, taskID, actor.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return models.TaskRoleNone, nil
		}
		return models.TaskRoleNone, err
	}
	return m.Role, nil
}

// GlobalAdminPolicy is the bypass variant: global admins resolve to task
// admin on every task without a membership lookup; everyone else falls back
// to strict membership.
type GlobalAdminPolicy struct {
	membership *MembershipPolicy
}

func NewGlobalAdminPolicy(members MembershipStore) *GlobalAdminPolicy {
	return &GlobalAdminPolicy{membership: NewMembershipPolicy(members)}
}

func (p *GlobalAdminPolicy) Resolve(ctx context.Context, actor Actor, taskID string) (models.TaskRole, error) {
	if actor.IsGlobalAdmin() {
		return models.TaskRoleAdmin, nil
	}
	return p.membership.Resolve(ctx, actor, taskID)
}

// FromConfig selects the configured policy implementation.
func FromConfig(policy string, members MembershipStore) Policy {
	if policy == config.PolicyGlobalBypass {
		return NewGlobalAdminPolicy(members)
	}
	return NewMembershipPolicy(members)
}

// Authorize is the permission gate: a pure decision over the resolved role
// and the operation's required role set. No membership maps to NotFound so
// task existence never leaks to non-members; an existing membership with an
// insufficient role maps to Forbidden.
func Authorize(role models.TaskRole, required ...models.TaskRole) error {
	if role == models.TaskRoleNone {
		return apperr.NotFound("task not found")
	}

	// Validation runs upstream, but an unknown role stored by an older
	// schema revision must still deny.
	if !models.ValidTaskRole(role) {
		return apperr.Forbidden("you are not allowed to perform this action")
	}

	for _, r := range required {
		if role == r {
			return nil
		}
	}
	return apperr.Forbidden("you are not allowed to perform this action")
}
