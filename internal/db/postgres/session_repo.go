package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"anyboard/internal/auth"
	"anyboard/internal/core/sessions"
)

type postgresSessionRepo struct {
	db *sql.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sql.DB) auth.SessionRepository {
	return &postgresSessionRepo{db: db}
}

// Create persists a session
func (r *postgresSessionRepo) Create(ctx context.Context, session *sessions.Session) error {
	query := `
		INSERT INTO sessions (token, user_uid, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.Token, session.UID, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Delete removes a session by token
func (r *postgresSessionRepo) Delete(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return auth.ErrSessionNotFound
	}

	return nil
}

// ListActive returns every unexpired session joined with its account, so
// restored sessions carry the identity snapshot the token was issued for.
func (r *postgresSessionRepo) ListActive(ctx context.Context) ([]*sessions.Session, error) {
	query := `
		SELECT s.token, s.user_uid, u.display_name, u.email, s.created_at, s.expires_at
		FROM sessions s
		INNER JOIN users u ON s.user_uid = u.uid
		WHERE s.expires_at > NOW()
		ORDER BY s.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("WARN: failed to close rows: %v", err)
		}
	}()

	var result []*sessions.Session
	for rows.Next() {
		var session sessions.Session
		err := rows.Scan(
			&session.Token, &session.UID, &session.DisplayName,
			&session.Email, &session.CreatedAt, &session.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		result = append(result, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return result, nil
}
