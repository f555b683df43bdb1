// internal/service/note_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/authz"
)

func newNoteService(f *fixture) *NoteService {
	return NewNoteService(f.tasks, f.notes, authz.NewMembershipPolicy(f.members), f.log)
}

func TestNoteService(t *testing.T) {
	f := newFixture()
	svc := newNoteService(f)
	alice := seedUser(f, "alice")
	mallory := seedUser(f, "mallory")
	taskID := seedTask(t, f, alice)
	ctx := context.Background()

	t.Run("member creates and lists notes", func(t *testing.T) {
		note, err := svc.Create(ctx, actorFor(alice), taskID, &CreateNoteRequest{Content: "deploy friday"})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, note.CreatedBy)

		notes, err := svc.List(ctx, actorFor(alice), taskID)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "deploy friday", notes[0].Content)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, actorFor(alice), taskID, &CreateNoteRequest{Content: ""})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("outsider gets not found", func(t *testing.T) {
		_, err := svc.Create(ctx, actorFor(mallory), taskID, &CreateNoteRequest{Content: "nope"})
		assert.True(t, apperr.IsNotFound(err))

		_, err = svc.List(ctx, actorFor(mallory), taskID)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestSubtaskServiceNotImplemented(t *testing.T) {
	svc := NewSubtaskService()
	actor := authz.Actor{ID: "u1"}
	ctx := context.Background()

	assert.Equal(t, apperr.KindNotImplemented, apperr.KindOf(svc.Create(ctx, actor, "t1")))
	assert.Equal(t, apperr.KindNotImplemented, apperr.KindOf(svc.Update(ctx, actor, "t1", "s1")))
	assert.Equal(t, apperr.KindNotImplemented, apperr.KindOf(svc.Delete(ctx, actor, "t1", "s1")))
}
