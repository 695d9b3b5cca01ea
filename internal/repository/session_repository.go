package repository

import (
    "context"
    "database/sql"
    "time"
)

// SessionRepo persists/validates staff refresh tokens (single 'token_hash'
// column; the raw token never touches the database).
type SessionRepo struct{ DB *sql.DB }

// NewSessionRepo returns a SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row for the given subject.
func (r *SessionRepo) StoreRefresh(ctx context.Context, subject, tokenHash string, exp time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        "INSERT INTO admin_sessions (subject, token_hash, expires_at, created_at) VALUES (?,?,?,?)",
        subject, tokenHash, exp.UTC().Format(timeLayout), time.Now().UTC().Format(timeLayout))
    return err
}

// ValidateRefresh returns the subject if a non-revoked, non-expired token
// with the given hash exists; otherwise sql.ErrNoRows.
func (r *SessionRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
    var (
        subject   string
        expiresAt string
        revokedAt sql.NullString
    )
    err := r.DB.QueryRowContext(ctx,
        "SELECT subject, expires_at, revoked_at FROM admin_sessions WHERE token_hash=? LIMIT 1",
        tokenHash).Scan(&subject, &expiresAt, &revokedAt)
    if err != nil {
        return "", err
    }
    if revokedAt.Valid {
        return "", sql.ErrNoRows
    }
    exp, err := time.Parse(timeLayout, expiresAt)
    if err != nil || time.Now().UTC().After(exp) {
        return "", sql.ErrNoRows
    }
    return subject, nil
}

// RevokeByHash marks a token as revoked.
func (r *SessionRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE admin_sessions SET revoked_at=? WHERE token_hash=? AND revoked_at IS NULL",
        time.Now().UTC().Format(timeLayout), tokenHash)
    return err
}
