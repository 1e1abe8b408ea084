package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/exercise-tracker/apiserver/types"
)

// UserRepository handles persistence for users in postgres. The exercise
// log lives in a JSONB column next to the user row.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM users`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	const query = `
		SELECT id, username, count, log
		FROM users
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	numericID, err := parseUserID(id)
	if err != nil {
		return types.User{}, err
	}

	const query = `
		SELECT id, username, count, log
		FROM users
		WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, numericID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// Create inserts the user. The id comes from the users_id_seq sequence, so
// concurrent creates never share an id.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	user.Count = 0
	user.Log = []types.Exercise{}

	const query = `
		INSERT INTO users (username, count, log)
		VALUES ($1, 0, '[]'::jsonb)
		RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, user.Username).Scan(&id); err != nil {
		return types.User{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = strconv.FormatInt(id, 10)
	return user, nil
}

// AppendExercise appends one entry and recomputes count in a single
// statement, so concurrent appends to the same user are never lost.
func (r *UserRepository) AppendExercise(ctx context.Context, id string, exercise types.Exercise) (types.User, error) {
	numericID, err := parseUserID(id)
	if err != nil {
		return types.User{}, err
	}

	entryJSON, err := json.Marshal([]types.Exercise{exercise})
	if err != nil {
		return types.User{}, err
	}

	const query = `
		UPDATE users
		SET log = log || $1::jsonb,
			count = jsonb_array_length(log || $1::jsonb)
		WHERE id = $2
		RETURNING id, username, count, log`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, string(entryJSON), numericID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, fmt.Errorf("append exercise: %w", err)
	}
	return user, nil
}

// Close releases the connection pool.
func (r *UserRepository) Close(context.Context) error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (types.User, error) {
	var (
		user    types.User
		id      int64
		logJSON []byte
	)
	if err := row.Scan(&id, &user.Username, &user.Count, &logJSON); err != nil {
		return types.User{}, err
	}
	user.ID = strconv.FormatInt(id, 10)
	user.Log = []types.Exercise{}
	if len(logJSON) > 0 {
		if err := json.Unmarshal(logJSON, &user.Log); err != nil {
			return types.User{}, fmt.Errorf("decode log of user %s: %w", user.ID, err)
		}
	}
	return user, nil
}

// parseUserID maps ids that can never exist in the table to ErrNotFound.
func parseUserID(id string) (int64, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || numericID < 0 {
		return 0, ErrNotFound
	}
	return numericID, nil
}
