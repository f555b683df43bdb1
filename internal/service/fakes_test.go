// internal/service/fakes_test.go
package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
)

// In-memory store fakes. The member fake mirrors the storage guarantee the
// services rely on: Upsert is atomic per (task, user) pair, enforced here by
// a single mutex over the map.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) Create(ctx context.Context, input *repository.UserInput) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == input.Email || u.Username == input.Username {
			return nil, apperr.Conflict("email or username already in use")
		}
	}
	u := &models.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		FullName:     input.FullName,
		Avatar:       input.Avatar,
		Role:         input.Role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, id string, input *repository.UserUpdateInput) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	if input.Username != nil {
		u.Username = *input.Username
	}
	if input.FullName != nil {
		u.FullName = *input.FullName
	}
	if input.Avatar != nil {
		u.Avatar = *input.Avatar
	}
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

type fakeMemberStore struct {
	mu      sync.Mutex
	members map[string]*models.TaskMember
	users   *fakeUserStore

	removeAllErr error
}

func newFakeMemberStore(users *fakeUserStore) *fakeMemberStore {
	return &fakeMemberStore{members: make(map[string]*models.TaskMember), users: users}
}

func memberKey(taskID, userID string) string {
	return taskID + "|" + userID
}

func (f *fakeMemberStore) Upsert(ctx context.Context, taskID, userID string, role models.TaskRole, username string) (*models.TaskMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := memberKey(taskID, userID)
	now := time.Now().UTC()
	if m, ok := f.members[key]; ok {
		m.Role = role
		m.Username = username
		m.UpdatedAt = now
		return m, nil
	}
	m := &models.TaskMember{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    userID,
		Role:      role,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.members[key] = m
	return m, nil
}

func (f *fakeMemberStore) Find(ctx context.Context, taskID, userID string) (*models.TaskMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberKey(taskID, userID)]
	if !ok {
		return nil, apperr.NotFound("task member not found")
	}
	return m, nil
}

func (f *fakeMemberStore) UpdateRole(ctx context.Context, taskID, userID string, role models.TaskRole) (*models.TaskMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberKey(taskID, userID)]
	if !ok {
		return nil, apperr.NotFound("task member not found")
	}
	m.Role = role
	m.UpdatedAt = time.Now().UTC()
	return m, nil
}

func (f *fakeMemberStore) Remove(ctx context.Context, taskID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := memberKey(taskID, userID)
	if _, ok := f.members[key]; !ok {
		return apperr.NotFound("task member not found")
	}
	delete(f.members, key)
	return nil
}

func (f *fakeMemberStore) RemoveAllForTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeAllErr != nil {
		return f.removeAllErr
	}
	for key, m := range f.members {
		if m.TaskID == taskID {
			delete(f.members, key)
		}
	}
	return nil
}

func (f *fakeMemberStore) ListForTask(ctx context.Context, taskID string) ([]models.TaskMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TaskMember
	for _, m := range f.members {
		if m.TaskID == taskID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMemberStore) ListForTaskWithUsers(ctx context.Context, taskID string) ([]models.TaskMemberInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TaskMemberInfo
	for _, m := range f.members {
		if m.TaskID != taskID {
			continue
		}
		u := f.users.users[m.UserID]
		if u == nil {
			continue
		}
		out = append(out, models.TaskMemberInfo{
			TaskID: m.TaskID,
			Role:   m.Role,
			User: models.MemberUser{
				ID:       u.ID,
				Username: u.Username,
				FullName: u.FullName,
				Avatar:   u.Avatar,
				Email:    u.Email,
			},
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return out, nil
}

// count reports how many membership records exist for the task.
func (f *fakeMemberStore) count(taskID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.members {
		if m.TaskID == taskID {
			n++
		}
	}
	return n
}

type fakeTaskStore struct {
	mu      sync.Mutex
	tasks   map[string]*models.Task
	members *fakeMemberStore
	users   *fakeUserStore
}

func newFakeTaskStore(members *fakeMemberStore, users *fakeUserStore) *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]*models.Task), members: members, users: users}
}

func (f *fakeTaskStore) CreateWithCreator(ctx context.Context, input *repository.TaskInput, creator *models.User, assignee *models.User) (*models.Task, error) {
	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		CreatedBy:   creator.ID,
		Attachments: input.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if assignee != nil {
		task.AssignedTo = sql.NullString{String: assignee.ID, Valid: true}
		task.AssignedBy = sql.NullString{String: creator.ID, Valid: true}
	}

	f.mu.Lock()
	f.tasks[task.ID] = task
	f.mu.Unlock()

	if _, err := f.members.Upsert(ctx, task.ID, creator.ID, models.TaskRoleAdmin, creator.Username); err != nil {
		return nil, err
	}
	if assignee != nil && assignee.ID != creator.ID {
		if _, err := f.members.Upsert(ctx, task.ID, assignee.ID, models.TaskRoleMember, assignee.Username); err != nil {
			return nil, err
		}
	}
	return task, nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task not found")
	}
	return task, nil
}

func (f *fakeTaskStore) Update(ctx context.Context, id string, input *repository.TaskUpdateInput) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task not found")
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == "" {
			task.AssignedTo = sql.NullString{}
			task.AssignedBy = sql.NullString{}
		} else {
			task.AssignedTo = sql.NullString{String: *input.AssignedTo, Valid: true}
			task.AssignedBy = sql.NullString{String: input.AssignedBy, Valid: true}
		}
	}
	task.UpdatedAt = time.Now().UTC()
	return task, nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return apperr.NotFound("task not found")
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) summary(task *models.Task, viewerID string) models.TaskSummary {
	s := models.TaskSummary{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		MemberCount: f.members.count(task.ID),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if m, err := f.members.Find(context.Background(), task.ID, viewerID); err == nil {
		s.MyRole = m.Role
	}
	if task.AssignedTo.Valid {
		if u := f.users.users[task.AssignedTo.String]; u != nil {
			pu := u.Public()
			s.AssignedTo = &pu
		}
	}
	return s
}

func (f *fakeTaskStore) ListForUser(ctx context.Context, userID string) ([]models.TaskSummary, error) {
	f.mu.Lock()
	tasks := make([]*models.Task, 0, len(f.tasks))
	for _, task := range f.tasks {
		tasks = append(tasks, task)
	}
	f.mu.Unlock()

	var out []models.TaskSummary
	for _, task := range tasks {
		if _, err := f.members.Find(ctx, task.ID, userID); err != nil {
			continue
		}
		out = append(out, f.summary(task, userID))
	}
	return out, nil
}

func (f *fakeTaskStore) ListAll(ctx context.Context, viewerID string) ([]models.TaskSummary, error) {
	f.mu.Lock()
	tasks := make([]*models.Task, 0, len(f.tasks))
	for _, task := range f.tasks {
		tasks = append(tasks, task)
	}
	f.mu.Unlock()

	var out []models.TaskSummary
	for _, task := range tasks {
		out = append(out, f.summary(task, viewerID))
	}
	return out, nil
}

func (f *fakeTaskStore) GetDetail(ctx context.Context, id string) (*models.TaskDetail, error) {
	task, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.TaskDetail{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Attachments: task.Attachments,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.AssignedTo.Valid {
		if u := f.users.users[task.AssignedTo.String]; u != nil {
			pu := u.Public()
			detail.AssignedTo = &pu
		}
	}
	return detail, nil
}

type fakeNoteStore struct {
	mu    sync.Mutex
	notes []models.TaskNote
}

func (f *fakeNoteStore) Create(ctx context.Context, taskID, createdBy, content string) (*models.TaskNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note := models.TaskNote{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		CreatedBy: createdBy,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.notes = append(f.notes, note)
	return &note, nil
}

func (f *fakeNoteStore) ListForTask(ctx context.Context, taskID string) ([]models.TaskNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TaskNote
	for _, n := range f.notes {
		if n.TaskID == taskID {
			out = append(out, n)
		}
	}
	return out, nil
}

// fixture bundles the fakes every service test needs.
type fixture struct {
	users   *fakeUserStore
	members *fakeMemberStore
	tasks   *fakeTaskStore
	notes   *fakeNoteStore
	log     *logger.Logger
}

func newFixture() *fixture {
	users := newFakeUserStore()
	members := newFakeMemberStore(users)
	return &fixture{
		users:   users,
		members: members,
		tasks:   newFakeTaskStore(members, users),
		notes:   &fakeNoteStore{},
		log:     logger.New("test"),
	}
}
