package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column; the db tags are read by
// sqlx.  Handlers never serialize a User directly because it carries the
// password hash.
//
// Fields:
//
//	ID           – opaque identifier assigned when the row is inserted.
//	Email        – unique email address, compared case-sensitively.
//	PasswordHash – bcrypt hashed password.
//	FullName     – display name.
//	CreatedAt    – timestamp of creation, never updated.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	CreatedAt    time.Time `db:"created_at"`
}

// NewUser is the input for inserting a user.  PasswordHash must already be
// the output of the password hasher.
type NewUser struct {
	Email        string
	PasswordHash string
	FullName     string
}

// Profile is the public view of a user.  It deliberately has no field for
// the password hash.
type Profile struct {
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Profile returns the public view of u.
func (u User) Profile() Profile {
	return Profile{Email: u.Email, FullName: u.FullName, CreatedAt: u.CreatedAt}
}
