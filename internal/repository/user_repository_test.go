package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/animula-auth/internal/model"
)

func newRepoWithMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(sqlx.NewDb(db, "mysql")), mock
}

const (
	insertQ  = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*password_hash,\s*full_name\)\s*VALUES\s*\(\?,\?,\?,\?\)$`
	byEmailQ = `(?s)^SELECT\s+id,email,password_hash,full_name,created_at\s+FROM\s+users\s+WHERE\s+email=\?\s+LIMIT\s+1$`
	byIDQ    = `(?s)^SELECT\s+email,full_name,created_at\s+FROM\s+users\s+WHERE\s+id=\?\s+LIMIT\s+1$`
)

func TestInsert_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertQ).
		WithArgs(sqlmock.AnyArg(), "a@x.com", "$2a$10$hash", "Ann").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Insert(context.Background(), model.NewUser{Email: "a@x.com", PasswordHash: "$2a$10$hash", FullName: "Ann"})
	require.NoError(t, err)
	_, perr := uuid.Parse(id)
	assert.NoError(t, perr, "id should be a UUID")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DuplicateEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertQ).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'uq_users_email'"})

	_, err := repo.Insert(context.Background(), model.NewUser{Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestInsert_OtherError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Insert(context.Background(), model.NewUser{Email: "a@x.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
	assert.Contains(t, err.Error(), "db down")
}

func TestFindByEmail(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "created_at"}).
			AddRow("u-1", "a@x.com", "hash", "Ann", created)
		mock.ExpectQuery(byEmailQ).WithArgs("a@x.com").WillReturnRows(rows)

		u, err := repo.FindByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, model.User{ID: "u-1", Email: "a@x.com", PasswordHash: "hash", FullName: "Ann", CreatedAt: created}, u)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(byEmailQ).WithArgs("nobody@x.com").WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(byEmailQ).WillReturnError(errors.New("conn reset"))

		_, err := repo.FindByEmail(context.Background(), "a@x.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestFindProfileByID(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		rows := sqlmock.NewRows([]string{"email", "full_name", "created_at"}).
			AddRow("a@x.com", "Ann", created)
		mock.ExpectQuery(byIDQ).WithArgs("u-1").WillReturnRows(rows)

		p, err := repo.FindProfileByID(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Equal(t, model.Profile{Email: "a@x.com", FullName: "Ann", CreatedAt: created}, p)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(byIDQ).WithArgs("u-2").WillReturnError(sql.ErrNoRows)

		_, err := repo.FindProfileByID(context.Background(), "u-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
