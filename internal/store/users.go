package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kmuriuki/matchday/internal/models"
	"github.com/kmuriuki/matchday/internal/queue"
)

// UserStore persists accounts. Passwords are stored and matched as
// plain text — hardening authentication is explicitly out of scope.
type UserStore struct {
	db    *sql.DB
	queue *queue.Queue
	log   *slog.Logger
}

// NewUserStore constructs a UserStore. All writes go through q.
func NewUserStore(db *sql.DB, q *queue.Queue, log *slog.Logger) *UserStore {
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{db: db, queue: q, log: log}
}

// Register inserts u, assigning an id and creation timestamp if
// absent, and returns the stored user. The UNIQUE constraint on
// username fires at the storage layer; callers should pre-check with
// UsernameExists because a failed insert resolves to nil without
// distinguishing the cause.
func (s *UserStore) Register(ctx context.Context, u models.User) *models.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	var rows int64
	done := s.queue.Enqueue("register user", func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO users (id, name, username, password, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Name, u.Username, u.Password, timeToMs(u.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		rows, _ = res.RowsAffected()
		return nil
	})
	if err := <-done; err != nil || rows == 0 {
		return nil
	}
	return &u
}

// Login looks up a user by exact username and password match. Wrong
// credentials are (nil, nil) — absence, not failure. A storage error
// is returned, per the read-path taxonomy.
func (s *UserStore) Login(ctx context.Context, username, password string) (*models.User, error) {
	var u models.User
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, username, password, created_at
		 FROM users WHERE username = ? AND password = ?`,
		username, password,
	).Scan(&u.ID, &u.Name, &u.Username, &u.Password, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("login user: %w", err)
	}
	u.CreatedAt = msToTime(created)
	return &u, nil
}

// UsernameExists reports whether a username is already taken.
func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// Clear wipes the users table. Administrative/test operation.
func (s *UserStore) Clear(ctx context.Context) bool {
	done := s.queue.Enqueue("clear users", func(ctx context.Context) error {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		return nil
	})
	return <-done == nil
}
