package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"bclub/backend/libs/auth"
	libdb "bclub/backend/libs/db"
	"bclub/backend/services/auth-service/internal/models"
)

var (
	// ErrUserNotFound represents missing user rows.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned on a unique violation of staff_users.username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrLastAdmin is returned when a delete would leave no admin account.
	ErrLastAdmin = errors.New("cannot delete the last admin")
)

const schema = `
	CREATE TABLE IF NOT EXISTS staff_users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'staff',
		capabilities  INTEGER NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// UserRepository handles CRUD for the staff_users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureSchema creates the staff_users table when it does not exist yet.
func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Username = normalizeUsername(user.Username)
	const query = `
		INSERT INTO staff_users (username, password_hash, role, capabilities)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.Role, int64(user.Capabilities)).
		Scan(&user.ID, &user.CreatedAt)
	if libdb.IsDuplicateKey(err) {
		return ErrUsernameTaken
	}
	return err
}

// GetByUsername fetches a user by login name.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `
		SELECT id, username, password_hash, role, capabilities, created_at
		FROM staff_users
		WHERE username = $1
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, normalizeUsername(username)))
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, username, password_hash, role, capabilities, created_at
		FROM staff_users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// UpdateCapabilities overwrites the capability mask of a user.
func (r *UserRepository) UpdateCapabilities(ctx context.Context, id int64, caps auth.CapabilitySet) error {
	res, err := r.db.ExecContext(ctx, `UPDATE staff_users SET capabilities = $1 WHERE id = $2`, int64(caps), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns every user ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	const query = `
		SELECT id, username, password_hash, role, capabilities, created_at
		FROM staff_users
		ORDER BY username
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Delete removes a user. Admin rows are locked first so two concurrent deletes cannot remove
// the last two admins.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM staff_users WHERE role = $1 FOR UPDATE`, auth.RoleAdmin)
	if err != nil {
		return err
	}
	var admins int
	targetIsAdmin := false
	for rows.Next() {
		var adminID int64
		if err := rows.Scan(&adminID); err != nil {
			rows.Close()
			return err
		}
		admins++
		if adminID == id {
			targetIsAdmin = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if targetIsAdmin && admins <= 1 {
		return ErrLastAdmin
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM staff_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user models.User
		caps int64
	)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &caps, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Capabilities = auth.CapabilitySet(caps)
	return &user, nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
