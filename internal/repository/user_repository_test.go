package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/movierec/movie-recommendation-api/internal/model"
)

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestCreateHashesPasswordAndReturnsID(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("INSERT INTO users (username, password_hash, role) VALUES (?,?,?)").
		WithArgs("alice", sqlmock.AnyArg(), "User").
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := repo.Create(context.Background(), " alice ", "s3cret", model.RoleUser, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("INSERT INTO users (username, password_hash, role) VALUES (?,?,?)").
		WithArgs("alice", sqlmock.AnyArg(), "User").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users (username, password_hash, role) VALUES (?,?,?)").
		WithArgs("alice", sqlmock.AnyArg(), "User").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'"))

	_, err := repo.Create(context.Background(), "alice", "s3cret", model.RoleUser, bcrypt.MinCost)
	require.NoError(t, err)

	// The second registration with the same username must fail with the
	// conflict sentinel; the unique index guarantees only one row exists.
	_, err = repo.Create(context.Background(), "alice", "other", model.RoleUser, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
