package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/C241-PS090/backend-api/types"
	"github.com/google/uuid"
)

const userColumns = `id, name, email, role, password_hash, gender, age, profile_picture_url, token, created_at, updated_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with a generated opaque ID and server-assigned
// timestamps.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (id, name, email, role, password_hash, gender, age, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.Gender,
		user.Age,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail returns the first user with the given email. Email
// uniqueness is not guaranteed by the store.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByToken returns the user holding the given session token.
func (r *UserRepository) GetByToken(ctx context.Context, token string) (types.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE token = $1 LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, token))
}

// List returns every user. There is no pagination; the scan is unbounded.
func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfile applies a partial profile update. Only non-nil fields
// enter the SET clause; updated_at is always stamped.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (types.User, error) {
	assignments, args := buildProfileSet(update, time.Now())
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(assignments, ", "),
		len(args),
	)
	return r.scanOne(r.db.QueryRowContext(ctx, query, args...))
}

// SetToken updates only the session token field. A nil token logs the
// user out.
func (r *UserRepository) SetToken(ctx context.Context, id string, token *string) error {
	const query = `UPDATE users SET token = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, token, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// buildProfileSet renders the SET assignments and arguments for a
// partial profile update. updated_at is always the first assignment.
func buildProfileSet(update types.ProfileUpdate, now time.Time) ([]string, []any) {
	assignments := []string{"updated_at = $1"}
	args := []any{now}

	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Gender != nil {
		add("gender", *update.Gender)
	}
	if update.Age != nil {
		add("age", *update.Age)
	}
	if update.ProfilePictureURL != nil {
		add("profile_picture_url", *update.ProfilePictureURL)
	}
	return assignments, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanOne(row rowScanner) (types.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func scanUser(row rowScanner) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.Gender,
		&user.Age,
		&user.ProfilePictureURL,
		&user.Token,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return types.User{}, err
	}
	return user, nil
}
