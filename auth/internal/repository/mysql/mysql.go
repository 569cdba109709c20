// Package mysql implements the user repository on MySQL.
//
// Schema:
//
//	CREATE TABLE users (
//	    id            VARCHAR(36)  NOT NULL,
//	    email         VARCHAR(255) NOT NULL,
//	    username      VARCHAR(255) NULL,
//	    avatar_url    VARCHAR(512) NULL,
//	    password_hash VARBINARY(128) NOT NULL,
//	    PRIMARY KEY (id),
//	    UNIQUE KEY users_email (email)
//	);
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/vaibhavisno-one/movierating/auth/internal/repository"
	"github.com/vaibhavisno-one/movierating/auth/pkg/model"
)

const duplicateEntryErrNo = 1062

// Repository is a MySQL-backed user repository.
type Repository struct {
	db *sql.DB
}

// New opens a connection to MySQL with the given DSN.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return &Repository{db: db}, nil
}

// Create stores a new user.
func (r *Repository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, username, avatar_url, password_hash)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Username, user.AvatarURL, user.PasswordHash)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNo {
		return repository.ErrDuplicateEmail
	}
	return err
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.get(ctx, "email = ?", email)
}

// GetByID retrieves a user by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *Repository) get(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, username, avatar_url, password_hash FROM users WHERE "+where, arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.AvatarURL, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update overwrites an existing user.
func (r *Repository) Update(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, username = ?, avatar_url = ?, password_hash = ?
		 WHERE id = ?`,
		user.Email, user.Username, user.AvatarURL, user.PasswordHash, user.ID)
	return err
}
