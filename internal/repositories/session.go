package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/shared"
)

const sessionColumns = `id, sequence, user_id, email, display_name, provider, id_token, refresh_token,
	expires_at, created_at, updated_at, deleted_at`

// SessionRepository implements [models.Repository] for sign-in [models.Session] persistence.
type SessionRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Session] = (*SessionRepository)(nil)

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session with generated ID and sequence
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	session.SetID(id)
	session.SetSequence(sequence)

	query := `
		INSERT INTO sessions (id, sequence, user_id, email, display_name, provider, id_token, refresh_token,
			expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	user := session.User()
	_, err = r.db.ExecContext(ctx, query,
		id, sequence, user.ID, user.Email, user.DisplayName, session.Provider(),
		session.IDToken(), session.RefreshToken(), nullTime(session.ExpiresAt()),
		session.CreatedAt(), session.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID, excluding signed-out sessions
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? AND deleted_at IS NULL`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return session, nil
}

// Active returns the most recent session that has not been signed out.
func (r *SessionRepository) Active(ctx context.Context) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1`

	session, err := scanSession(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active session: %w", err)
	}

	return session, nil
}

// Update stores refreshed tokens and profile fields for an existing session
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	session.SetUpdatedAt(now)

	query := `
		UPDATE sessions
		SET email = ?, display_name = ?, id_token = ?, refresh_token = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	user := session.User()
	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.DisplayName, session.IDToken(), session.RefreshToken(),
		nullTime(session.ExpiresAt()), now, session.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return expectAffected(result, session.ID())
}

// Delete soft-deletes a session by ID, discarding its tokens
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE sessions SET deleted_at = ?, id_token = '', refresh_token = '' WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return expectAffected(result, id)
}

// DeleteAll soft-deletes every active session and returns how many were signed out.
func (r *SessionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE sessions SET deleted_at = ?, id_token = '', refresh_token = '' WHERE deleted_at IS NULL`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// List retrieves active sessions matching the given criteria (user_id, provider), oldest first
func (r *SessionRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE deleted_at IS NULL`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if provider, ok := criteria["provider"].(string); ok && provider != "" {
		query += " AND provider = ?"
		args = append(args, provider)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		id, userID, email, displayName string
		provider, idToken, refresh     string
		sequence                       int
		createdAt, updatedAt           time.Time
		expiresAt, deletedAt           sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &email, &displayName, &provider, &idToken, &refresh,
		&expiresAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	user := models.User{ID: userID, Email: email, DisplayName: displayName}
	session := models.NewSession(user, provider, idToken, refresh, expiresAt.Time)
	session.SetID(id)
	session.SetSequence(sequence)
	session.SetCreatedAt(createdAt)
	session.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		session.SetDeletedAt(&deletedAt.Time)
	}

	return session, nil
}

func expectAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found or already deleted: %s", id)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
