// internal/service/member_service_test.go
package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/authz"
	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/models"
)

func newMemberService(f *fixture) *MemberService {
	return NewMemberService(f.tasks, f.members, f.users, authz.NewMembershipPolicy(f.members), f.log)
}

// seedTask creates a task owned by admin and returns its id.
func seedTask(t *testing.T, f *fixture, admin *models.User) string {
	t.Helper()
	svc := newTaskService(f, config.PolicyMembership)
	task, err := svc.Create(context.Background(), actorFor(admin), &CreateTaskRequest{Title: "Ship release"})
	require.NoError(t, err)
	return task.ID
}

func TestMemberServiceAdd(t *testing.T) {
	t.Run("add by user id", func(t *testing.T) {
		f := newFixture()
		svc := newMemberService(f)
		alice := seedUser(f, "alice")
		bob := seedUser(f, "bob")
		taskID := seedTask(t, f, alice)

		info, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID})
		require.NoError(t, err)
		assert.Equal(t, models.TaskRoleMember, info.Role)
		assert.Equal(t, bob.Username, info.User.Username)
		assert.Equal(t, bob.Email, info.User.Email)
	})

	t.Run("add by email", func(t *testing.T) {
		f := newFixture()
		svc := newMemberService(f)
		alice := seedUser(f, "alice")
		bob := seedUser(f, "bob")
		taskID := seedTask(t, f, alice)

		info, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{
			Email: bob.Email,
			Role:  models.TaskRoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, models.TaskRoleAdmin, info.Role)
	})

	t.Run("duplicate add is an idempotent upsert", func(t *testing.T) {
		f := newFixture()
		svc := newMemberService(f)
		alice := seedUser(f, "alice")
		bob := seedUser(f, "bob")
		taskID := seedTask(t, f, alice)

		_, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID})
		require.NoError(t, err)
		info, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID, Role: models.TaskRoleAdmin})
		require.NoError(t, err)

		// Last writer wins on role, still exactly one record.
		assert.Equal(t, models.TaskRoleAdmin, info.Role)
		assert.Equal(t, 2, f.members.count(taskID))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture()
		svc := newMemberService(f)
		alice := seedUser(f, "alice")
		taskID := seedTask(t, f, alice)

		_, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{UserID: "nope"})
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
		assert.Equal(t, "user does not exist", apperr.PublicMessage(err))
	})

	t.Run("neither id nor email", func(t *testing.T) {
		f := newFixture()
		svc := newMemberService(f)
		alice := seedUser(f, "alice")
		taskID := seedTask(t, f, alice)

		_, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("invalid role", func(t *testing.T) {
		f := newFixture()
		svc := newMemberService(f)
		alice := seedUser(f, "alice")
		bob := seedUser(f, "bob")
		taskID := seedTask(t, f, alice)

		_, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID, Role: "owner"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("member role may not manage members", func(t *testing.T) {
		f := newFixture()
		svc := newMemberService(f)
		alice := seedUser(f, "alice")
		bob := seedUser(f, "bob")
		carol := seedUser(f, "carol")
		taskID := seedTask(t, f, alice)

		_, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID})
		require.NoError(t, err)

		_, err = svc.Add(context.Background(), actorFor(bob), taskID, &AddMemberRequest{UserID: carol.ID})
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("outsider gets not found", func(t *testing.T) {
		f := newFixture()
		svc := newMemberService(f)
		alice := seedUser(f, "alice")
		mallory := seedUser(f, "mallory")
		taskID := seedTask(t, f, alice)

		_, err := svc.Add(context.Background(), actorFor(mallory), taskID, &AddMemberRequest{UserID: mallory.ID})
		assert.True(t, apperr.IsNotFound(err))
	})
}

// Concurrent adds of the same user must collapse to a single membership.
// The store's atomic upsert, not any check in the service, carries this.
func TestMemberServiceAddConcurrent(t *testing.T) {
	f := newFixture()
	svc := newMemberService(f)
	alice := seedUser(f, "alice")
	bob := seedUser(f, "bob")
	taskID := seedTask(t, f, alice)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(context.Background(), actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	// Creator plus bob, regardless of how the adds interleaved.
	assert.Equal(t, 2, f.members.count(taskID))
}

func TestMemberServiceChangeRole(t *testing.T) {
	f := newFixture()
	svc := newMemberService(f)
	alice := seedUser(f, "alice")
	bob := seedUser(f, "bob")
	carol := seedUser(f, "carol")
	taskID := seedTask(t, f, alice)
	ctx := context.Background()

	_, err := svc.Add(ctx, actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID})
	require.NoError(t, err)

	t.Run("promote member to admin", func(t *testing.T) {
		m, err := svc.ChangeRole(ctx, actorFor(alice), taskID, bob.ID, models.TaskRoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.TaskRoleAdmin, m.Role)
	})

	t.Run("never creates a membership", func(t *testing.T) {
		_, err := svc.ChangeRole(ctx, actorFor(alice), taskID, carol.ID, models.TaskRoleAdmin)
		assert.True(t, apperr.IsNotFound(err))
		assert.Equal(t, 2, f.members.count(taskID))
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := svc.ChangeRole(ctx, actorFor(alice), taskID, bob.ID, "owner")
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestMemberServiceRemove(t *testing.T) {
	f := newFixture()
	svc := newMemberService(f)
	alice := seedUser(f, "alice")
	bob := seedUser(f, "bob")
	taskID := seedTask(t, f, alice)
	ctx := context.Background()

	_, err := svc.Add(ctx, actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID})
	require.NoError(t, err)

	t.Run("removes the membership", func(t *testing.T) {
		require.NoError(t, svc.Remove(ctx, actorFor(alice), taskID, bob.ID))
		_, err := f.members.Find(ctx, taskID, bob.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("removing a non-member is not found", func(t *testing.T) {
		err := svc.Remove(ctx, actorFor(alice), taskID, bob.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("admins may remove themselves", func(t *testing.T) {
		require.NoError(t, svc.Remove(ctx, actorFor(alice), taskID, alice.ID))
		assert.Zero(t, f.members.count(taskID))
	})
}

func TestMemberServiceList(t *testing.T) {
	f := newFixture()
	svc := newMemberService(f)
	alice := seedUser(f, "alice")
	bob := seedUser(f, "bob")
	mallory := seedUser(f, "mallory")
	taskID := seedTask(t, f, alice)
	ctx := context.Background()

	_, err := svc.Add(ctx, actorFor(alice), taskID, &AddMemberRequest{UserID: bob.ID})
	require.NoError(t, err)

	t.Run("members see the listing with user profiles", func(t *testing.T) {
		members, err := svc.List(ctx, actorFor(bob), taskID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		for _, m := range members {
			assert.NotEmpty(t, m.User.Username)
			assert.NotEmpty(t, m.User.Email)
		}
	})

	t.Run("outsiders get not found", func(t *testing.T) {
		_, err := svc.List(ctx, actorFor(mallory), taskID)
		assert.True(t, apperr.IsNotFound(err))
	})
}
