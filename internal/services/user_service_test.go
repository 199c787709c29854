package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/users-api/internal/models"
	"github.com/isdelr/users-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *UserService {
	t.Helper()
	store := storage.New(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, store.Init())
	return NewUserService(store)
}

func seedUsers(t *testing.T, s *UserService, n int) []models.User {
	t.Helper()
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		u, err := s.CreateUser(models.CreateUserInput{
			Email:    fmt.Sprintf("user%d@test.com", i),
			Forename: fmt.Sprintf("user%d", i),
		})
		require.NoError(t, err)
		users = append(users, u)
	}
	return users
}

func strPtr(s string) *string { return &s }

func TestCreateUser_ThenGet(t *testing.T) {
	s := newTestService(t)
	fixed := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	created, err := s.CreateUser(models.CreateUserInput{Email: "a@x.com", Forename: "A"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "", created.Surname)
	assert.Equal(t, fixed.UnixMilli(), created.Created)
	assert.Equal(t, "2024-03-09", created.ToNewUser().Created)

	got, err := s.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateUser_IDsAreVersion7(t *testing.T) {
	s := newTestService(t)
	users := seedUsers(t, s, 3)

	seen := map[string]bool{}
	for _, u := range users {
		id, err := uuid.Parse(u.ID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
		assert.False(t, seen[u.ID])
		seen[u.ID] = true
	}
}

func TestCreateUser_Validation(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name  string
		input models.CreateUserInput
		field string
	}{
		{name: "missing both", input: models.CreateUserInput{}, field: "email"},
		{name: "missing email", input: models.CreateUserInput{Forename: "A"}, field: "email"},
		{name: "missing forename", input: models.CreateUserInput{Email: "a@x.com", Surname: "S"}, field: "forename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateUser(tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestService(t)
	seedUsers(t, s, 2)

	_, err := s.CreateUser(models.CreateUserInput{Email: "user1@test.com", Forename: "other", Surname: "different"})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "user1@test.com", conflict.Email)

	users, err := s.ListUsers(0, 100)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCreateUser_IDGenerationFailure(t *testing.T) {
	s := newTestService(t)
	boom := errors.New("entropy exhausted")
	s.newID = func() (uuid.UUID, error) { return uuid.Nil, boom }

	_, err := s.CreateUser(models.CreateUserInput{Email: "a@x.com", Forename: "A"})
	assert.ErrorIs(t, err, boom)
}

func TestListUsers(t *testing.T) {
	s := newTestService(t)

	empty, err := s.ListUsers(0, 100)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	users := seedUsers(t, s, 5)

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []models.User
	}{
		{name: "first two", offset: 0, limit: 2, want: users[0:2]},
		{name: "middle", offset: 1, limit: 3, want: users[1:4]},
		{name: "clipped at end", offset: 3, limit: 10, want: users[3:5]},
		{name: "offset past end", offset: 10, limit: 5, want: []models.User{}},
		{name: "offset at end", offset: 5, limit: 5, want: []models.User{}},
		{name: "zero limit", offset: 0, limit: 0, want: []models.User{}},
		{name: "negative offset", offset: -3, limit: 1, want: users[0:1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListUsers(tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListUsers_CreateIncreasesCountByOne(t *testing.T) {
	s := newTestService(t)
	seedUsers(t, s, 3)

	before, err := s.ListUsers(0, 100)
	require.NoError(t, err)

	created, err := s.CreateUser(models.CreateUserInput{Email: "new@test.com", Forename: "new"})
	require.NoError(t, err)

	after, err := s.ListUsers(0, 100)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)

	matches := 0
	for _, u := range after {
		if u.ID == created.ID {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

func TestGetUserByID_NotFound(t *testing.T) {
	s := newTestService(t)
	seedUsers(t, s, 1)

	_, err := s.GetUserByID("unexisting_user_id")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "unexisting_user_id", nf.ID)
}

func TestUpdateUser_OnlySuppliedFields(t *testing.T) {
	s := newTestService(t)
	users := seedUsers(t, s, 2)
	original := users[0]

	updated, err := s.UpdateUser(original.ID, models.UpdateUserInput{Email: strPtr("user10@test.com")})
	require.NoError(t, err)

	assert.Equal(t, "user10@test.com", updated.Email)
	assert.Equal(t, original.Forename, updated.Forename)
	assert.Equal(t, original.Surname, updated.Surname)
	assert.Equal(t, original.Created, updated.Created)

	stored, err := s.GetUserByID(original.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateUser_EmptyValues(t *testing.T) {
	s := newTestService(t)
	created, err := s.CreateUser(models.CreateUserInput{Email: "a@x.com", Forename: "A", Surname: "S"})
	require.NoError(t, err)

	updated, err := s.UpdateUser(created.ID, models.UpdateUserInput{
		Email:    strPtr(""),
		Forename: strPtr(""),
		Surname:  strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, "A", updated.Forename)
	assert.Equal(t, "", updated.Surname)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	s := newTestService(t)
	users := seedUsers(t, s, 2)

	_, err := s.UpdateUser(users[0].ID, models.UpdateUserInput{Email: strPtr(users[1].Email)})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	stored, err := s.GetUserByID(users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, users[0].Email, stored.Email)

	same, err := s.UpdateUser(users[0].ID, models.UpdateUserInput{Email: strPtr(users[0].Email), Forename: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", same.Forename)
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestService(t)

	_, err := s.UpdateUser("nope", models.UpdateUserInput{Forename: strPtr("x")})

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteUser(t *testing.T) {
	s := newTestService(t)
	users := seedUsers(t, s, 3)

	// The first record must be deletable too.
	for _, u := range []models.User{users[0], users[2]} {
		deleted, err := s.DeleteUser(u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, deleted)

		_, err = s.GetUserByID(u.ID)
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
	}

	remaining, err := s.ListUsers(0, 100)
	require.NoError(t, err)
	assert.Equal(t, []models.User{users[1]}, remaining)
}

func TestDeleteUser_NotFound(t *testing.T) {
	s := newTestService(t)
	seedUsers(t, s, 1)

	_, err := s.DeleteUser("nope")

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	remaining, err := s.ListUsers(0, 100)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestService_PropagatesStorageErrors(t *testing.T) {
	s := NewUserService(storage.New(filepath.Join(t.TempDir(), "absent.json")))

	var ioErr *storage.IOError

	_, err := s.ListUsers(0, 10)
	assert.ErrorAs(t, err, &ioErr)

	_, err = s.CreateUser(models.CreateUserInput{Email: "a@x.com", Forename: "A"})
	assert.ErrorAs(t, err, &ioErr)

	_, err = s.GetUserByID("x")
	assert.ErrorAs(t, err, &ioErr)

	_, err = s.UpdateUser("x", models.UpdateUserInput{})
	assert.ErrorAs(t, err, &ioErr)

	_, err = s.DeleteUser("x")
	assert.ErrorAs(t, err, &ioErr)
}
