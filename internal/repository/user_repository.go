package repository

import (
	"context"      // context for cancellation and deadlines
	"database/sql" // sql.ErrNoRows
	"errors"       // errors.Is / errors.As
	"fmt"          // error wrapping

	"github.com/go-sql-driver/mysql" // MySQLError for duplicate-key detection
	"github.com/google/uuid"         // user ids
	"github.com/jmoiron/sqlx"        // GetContext scans straight into structs

	"github.com/iliyamo/animula-auth/internal/model" // User / Profile types
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// UserStore is the contract the auth service needs from persistence.
type UserStore interface {
	Insert(ctx context.Context, u model.NewUser) (string, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindProfileByID(ctx context.Context, id string) (model.Profile, error)
}

// UserRepo persists users in the `users` table.
type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Insert stores a new user under a fresh UUID and returns that id.
func (r *UserRepo) Insert(ctx context.Context, u model.NewUser) (string, error) {
	// The id is generated here rather than by MySQL so callers get it back
	// without a second query.
	id := uuid.NewString()
	// created_at is filled by the column default.
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, full_name) VALUES (?,?,?,?)",
		id, u.Email, u.PasswordHash, u.FullName)
	if err != nil {
		// The unique index on email rejects the second of two concurrent
		// registrations; report it as a domain error.
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// FindByEmail fetches the full record, hash included, for an exact email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	// The column collation is binary, so the match is exact.
	err := r.DB.GetContext(ctx, &u,
		"SELECT id,email,password_hash,full_name,created_at FROM users WHERE email=? LIMIT 1",
		email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) { // no such email
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("select user by email: %w", err)
	}
	return u, nil
}

// FindProfileByID fetches only the public columns of a user.
func (r *UserRepo) FindProfileByID(ctx context.Context, id string) (model.Profile, error) {
	var p model.Profile
	// Select the public columns only; the hash never leaves the database here.
	err := r.DB.GetContext(ctx, &p,
		"SELECT email,full_name,created_at FROM users WHERE id=? LIMIT 1",
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) { // user deleted after the token was issued
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	return p, nil
}
