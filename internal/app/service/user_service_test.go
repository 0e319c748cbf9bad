package service

import (
	"context"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "s3cret-password",
	}
}

func TestUserService_Register(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	view, err := e.users.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.NotZero(t, view.ID)
	assert.Equal(t, "cook", view.Username)
	assert.False(t, view.IsSubscribed)

	var stored model.User
	require.NoError(t, e.db.First(&stored, view.ID).Error)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "s3cret-password"))

	_, err = e.users.Register(ctx, validRegistration())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "username")
}

func TestUserService_Register_Validation(t *testing.T) {
	e := setupEnv(t)

	tests := []struct {
		name      string
		mutate    func(in *RegisterInput)
		wantField string
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "email"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"bad username", func(in *RegisterInput) { in.Username = "no spaces" }, "username"},
		{"missing first name", func(in *RegisterInput) { in.FirstName = "" }, "first_name"},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }, "last_name"},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegistration()
			tt.mutate(&input)

			_, err := e.users.Register(context.Background(), input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestUserService_SetPassword(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	view, err := e.users.Register(ctx, validRegistration())
	require.NoError(t, err)
	me := Authenticated(view.ID)

	err = e.users.SetPassword(ctx, me, SetPasswordInput{CurrentPassword: "wrong-password", NewPassword: "another-password"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = e.users.SetPassword(ctx, me, SetPasswordInput{CurrentPassword: "s3cret-password", NewPassword: "tiny"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, e.users.SetPassword(ctx, me, SetPasswordInput{CurrentPassword: "s3cret-password", NewPassword: "another-password"}))
	var stored model.User
	require.NoError(t, e.db.First(&stored, view.ID).Error)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "another-password"))

	assert.ErrorIs(t, e.users.SetPassword(ctx, Anonymous(), SetPasswordInput{}), ErrAuthRequired)
}

func TestUserService_ReadSide(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	fan := e.user(t, "fan")
	chef := e.user(t, "chef")
	_, err := e.follows.Subscribe(ctx, fan, chef.UserID, 0)
	require.NoError(t, err)

	view, err := e.users.GetUser(ctx, fan, chef.UserID)
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)

	view, err = e.users.GetUser(ctx, Anonymous(), chef.UserID)
	require.NoError(t, err)
	assert.False(t, view.IsSubscribed)

	_, err = e.users.GetUser(ctx, fan, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	me, err := e.users.Me(ctx, fan)
	require.NoError(t, err)
	assert.Equal(t, "fan", me.Username)
	_, err = e.users.Me(ctx, Anonymous())
	assert.ErrorIs(t, err, ErrAuthRequired)

	page, err := e.users.ListUsers(ctx, fan, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 2)
	assert.False(t, page.Results[0].IsSubscribed)
	assert.True(t, page.Results[1].IsSubscribed)
}
