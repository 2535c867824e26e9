package service

import (
	"context"
	"strings"
	"testing"

	"task-manager/internal/cache"
	"task-manager/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "john@example.com")

	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "pwd123", u.Password)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.createUser(t, "john@example.com")

	_, err := e.users.Create(ctx, UserDto{Email: "john@example.com", FirstName: "J", LastName: "D", Password: "abc"})
	assert.ErrorIs(t, err, ErrDuplicate)

	users, err := e.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// Validation happens before the store is touched, so no database is needed.
func TestUserValidation(t *testing.T) {
	users := NewUserService(nil, cache.Noop{}, validator.New())
	cases := map[string]UserDto{
		"bad email":          {Email: "nope", FirstName: "a", LastName: "b", Password: "abc"},
		"short password":     {Email: "a@b.co", FirstName: "a", LastName: "b", Password: "ab"},
		"blank name":         {Email: "a@b.co", FirstName: "  ", LastName: "b", Password: "abc"},
		"long password":      {Email: "a@b.co", FirstName: "a", LastName: "b", Password: strings.Repeat("x", 80)},
		"long password utf8": {Email: "a@b.co", FirstName: "a", LastName: "b", Password: strings.Repeat("é", 40)},
	}
	for name, dto := range cases {
		t.Run(name, func(t *testing.T) {
			for op, call := range map[string]func() error{
				"create": func() error { _, err := users.Create(context.Background(), dto); return err },
				"update": func() error { _, err := users.Update(context.Background(), 1, dto); return err },
			} {
				err := call()
				require.ErrorIs(t, err, ErrValidation, op)
				var serr *Error
				require.ErrorAs(t, err, &serr, op)
				assert.NotEmpty(t, serr.Details, op)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.createUser(t, "john@example.com")
	other := e.createUser(t, "jane@example.com")

	updated, err := e.users.Update(ctx, u.ID, UserDto{Email: "johnny@example.com", FirstName: "Johnny", LastName: "D", Password: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, "johnny@example.com", updated.Email)
	assert.Equal(t, u.CreatedAt, updated.CreatedAt)

	token, err := e.auth.Login(ctx, "johnny@example.com", "newpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = e.users.Update(ctx, u.ID, UserDto{Email: other.Email, FirstName: "x", LastName: "y", Password: "abc"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = e.users.Update(ctx, 999, UserDto{Email: "x@example.com", FirstName: "x", LastName: "y", Password: "abc"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserWithTasks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.createUser(t, "author@example.com")
	executor := e.createUser(t, "executor@example.com")
	status := e.createStatus(t, "new")
	task := e.createTask(t, author, TaskDto{Name: "t", TaskStatusID: &status.ID, ExecutorID: &executor.ID})

	assert.ErrorIs(t, e.users.Delete(ctx, author.ID), ErrIntegrity)
	assert.ErrorIs(t, e.users.Delete(ctx, executor.ID), ErrIntegrity)

	_, err := e.users.Get(ctx, executor.ID)
	require.NoError(t, err)

	require.NoError(t, e.tasks.Delete(ctx, task.ID))
	require.NoError(t, e.users.Delete(ctx, executor.ID))
	assert.ErrorIs(t, e.users.Delete(ctx, executor.ID), ErrNotFound)
}

func TestGetUserUsesCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.createUser(t, "john@example.com")

	_, err := e.users.Get(ctx, u.ID)
	require.NoError(t, err)

	var cached models.User
	found, err := e.cache.Get(ctx, cache.UserKey(u.ID), &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, cached.Password)

	_, err = e.users.Update(ctx, u.ID, UserDto{Email: "new@example.com", FirstName: "a", LastName: "b", Password: "abc"})
	require.NoError(t, err)
	got, err := e.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
}

func TestCurrentUser(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "john@example.com")

	got, err := e.users.CurrentUser(WithIdentity(context.Background(), u.Email))
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = e.users.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = e.users.CurrentUser(WithIdentity(context.Background(), "ghost@example.com"))
	assert.ErrorIs(t, err, ErrNotFound)
}
