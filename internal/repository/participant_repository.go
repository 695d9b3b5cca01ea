package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/event-day-signup/internal/model"
)

// ParticipantRepo provides access to the participants table.  Participants
// are created on first interaction and never deleted; the name is fixed at
// creation and Create never updates it.
type ParticipantRepo struct{ DB *sql.DB }

// NewParticipantRepo returns a ParticipantRepo bound to the given database.
func NewParticipantRepo(db *sql.DB) *ParticipantRepo { return &ParticipantRepo{DB: db} }

// Create inserts a participant row.  It is idempotent: when a row with the
// same id already exists the call succeeds without touching it.
func (r *ParticipantRepo) Create(ctx context.Context, id, name string) error {
    _, err := r.DB.ExecContext(ctx,
        "INSERT INTO participants (id, name, created_at) VALUES (?,?,?)",
        id, strings.TrimSpace(name), time.Now().UTC().Format(timeLayout))
    if err != nil && !isDuplicate(err) {
        return err
    }
    return nil
}

// EnsureTx is Create inside an existing transaction.  The signup flow runs
// it as the transaction's first statement so concurrent signups for the
// same participant serialize on the write lock up front instead of racing
// through their reads.
func (r *ParticipantRepo) EnsureTx(ctx context.Context, tx *sql.Tx, id, name string) error {
    _, err := tx.ExecContext(ctx,
        "INSERT INTO participants (id, name, created_at) VALUES (?,?,?)",
        id, strings.TrimSpace(name), time.Now().UTC().Format(timeLayout))
    if err != nil && !isDuplicate(err) {
        return err
    }
    return nil
}

// Find fetches a participant by id.  ErrNotFound is returned when no row
// exists.
func (r *ParticipantRepo) Find(ctx context.Context, id string) (*model.Participant, error) {
    var (
        p       model.Participant
        created string
    )
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, name, created_at FROM participants WHERE id=? LIMIT 1",
        id).Scan(&p.ID, &p.Name, &created)
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if t, err2 := time.Parse(timeLayout, created); err2 == nil {
        p.CreatedAt = t.UTC()
    }
    return &p, nil
}
