package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.createUser(t, "john@example.com")

	token, err := e.auth.Login(ctx, "john@example.com", "pwd123")
	require.NoError(t, err)

	email, err := e.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", email)

	_, err = e.auth.Login(ctx, "john@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, "nobody@example.com", "pwd123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	tokens := NewTokenService("secret-a", time.Hour)

	expired, err := NewTokenService("secret-a", -time.Minute).Issue("a@example.com")
	require.NoError(t, err)
	foreign, err := NewTokenService("secret-b", time.Hour).Issue("a@example.com")
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret-a"))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "a@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid, err := tokens.Issue("a@example.com")
	require.NoError(t, err)
	vp, fp := strings.Split(valid, "."), strings.Split(foreign, ".")
	tampered := vp[0] + "." + vp[1] + "." + fp[2]

	for name, token := range map[string]string{
		"malformed":  "not.a.token",
		"expired":    expired,
		"foreign":    foreign,
		"no subject": noSubject,
		"unsigned":   unsigned,
		"tampered":   tampered,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Validate(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestAuthorizer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.createUser(t, "author@example.com")
	other := e.createUser(t, "other@example.com")
	status := e.createStatus(t, "new")
	task := e.createTask(t, author, TaskDto{Name: "t", TaskStatusID: &status.ID, ExecutorID: &other.ID})

	assert.NoError(t, e.authz.CanModifyTask(ctx, author.Email, task.ID))
	assert.ErrorIs(t, e.authz.CanModifyTask(ctx, other.Email, task.ID), ErrForbidden)
	assert.ErrorIs(t, e.authz.CanModifyTask(ctx, author.Email, 999), ErrNotFound)
	assert.ErrorIs(t, e.authz.CanModifyTask(ctx, "", task.ID), ErrUnauthorized)

	assert.NoError(t, e.authz.CanModifyUser(ctx, other.Email, other.ID))
	assert.ErrorIs(t, e.authz.CanModifyUser(ctx, author.Email, other.ID), ErrForbidden)
	assert.ErrorIs(t, e.authz.CanModifyUser(ctx, author.Email, 999), ErrNotFound)
}
