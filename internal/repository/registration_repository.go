package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/event-day-signup/internal/model"
    "github.com/iliyamo/event-day-signup/internal/passphrase"
)

// RegistrationRepo is the registration ledger: it owns the
// capacity-and-uniqueness rules around the registrations table.  Create
// runs the whole check-then-insert sequence inside a single transaction
// (the connection is opened with SERIALIZABLE isolation) with the table's
// uniqueness constraints as defense in depth, so the capacity and
// one-booking-per-participant invariants hold under concurrent callers.
type RegistrationRepo struct {
    db           *sql.DB
    participants *ParticipantRepo
    gen          *passphrase.Generator
}

// NewRegistrationRepo returns a new RegistrationRepo bound to the given
// database, participant repository and passphrase generator.
func NewRegistrationRepo(db *sql.DB, participants *ParticipantRepo, gen *passphrase.Generator) *RegistrationRepo {
    if db == nil || participants == nil || gen == nil {
        panic("nil dependency passed to NewRegistrationRepo")
    }
    return &RegistrationRepo{db: db, participants: participants, gen: gen}
}

// DB exposes the underlying handle for callers that need to open their own
// transactions.
func (r *RegistrationRepo) DB() *sql.DB { return r.db }

// Create books a timeslot for a participant and returns the stored row,
// passphrase included.  The participant row is created first when missing.
// It rejects with ErrLimitReached when the participant already holds any
// live registration, ErrSlotFull when the slot is at capacity, and
// ErrConflict when a concurrent duplicate slips past the pre-checks and
// trips a uniqueness constraint at insert time.
//
// The sequence runs in one transaction whose first statement is a write
// (the participant upsert), so concurrent calls serialize before either
// has read the counts it is about to act on.
func (r *RegistrationRepo) Create(ctx context.Context, participantID, name, activity, timeslot string, capacity int) (*model.Registration, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := r.participants.EnsureTx(ctx, tx, participantID, name); err != nil {
        return nil, err
    }

    // One live booking per participant.
    var existing int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM registrations WHERE participant_id=?",
        participantID).Scan(&existing); err != nil {
        if isSerializationFailure(err) {
            return nil, ErrConflict
        }
        return nil, err
    }
    if existing > 0 {
        return nil, ErrLimitReached
    }

    // Capacity per activity+timeslot.
    var taken int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM registrations WHERE activity=? AND timeslot=?",
        activity, timeslot).Scan(&taken); err != nil {
        if isSerializationFailure(err) {
            return nil, ErrConflict
        }
        return nil, err
    }
    if taken >= capacity {
        return nil, ErrSlotFull
    }

    phrase, err := r.gen.Generate(ctx, func(ctx context.Context, candidate string) (bool, error) {
        return passphraseExistsTx(ctx, tx, candidate)
    })
    if err != nil {
        return nil, err
    }

    now := time.Now().UTC()
    res, err := tx.ExecContext(ctx,
        `INSERT INTO registrations
             (participant_id, participant_name, activity, timeslot, passphrase, created_at, checked_in)
         VALUES (?,?,?,?,?,?,0)`,
        participantID, name, activity, timeslot, phrase, now.Format(timeLayout))
    if err != nil {
        if isDuplicate(err) || isSerializationFailure(err) {
            return nil, ErrConflict
        }
        return nil, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        if isSerializationFailure(err) {
            return nil, ErrConflict
        }
        return nil, err
    }
    committed = true
    return &model.Registration{
        ID:              id,
        ParticipantID:   participantID,
        ParticipantName: name,
        Activity:        activity,
        Timeslot:        timeslot,
        Passphrase:      phrase,
        CreatedAt:       now,
        CheckedIn:       false,
    }, nil
}

// Cancel hard-deletes a registration, freeing its capacity slot.  It
// returns whether a row was actually removed: repeated cancels on a gone
// id return false, not an error.  A checked-in registration cannot be
// cancelled and yields ErrConflict.  The check and the delete share a
// transaction so a concurrent check-in cannot slip between them.
func (r *RegistrationRepo) Cancel(ctx context.Context, id int64) (bool, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return false, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var checkedIn bool
    err = tx.QueryRowContext(ctx,
        "SELECT checked_in FROM registrations WHERE id=?", id).Scan(&checkedIn)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    if checkedIn {
        return false, ErrConflict
    }
    res, err := tx.ExecContext(ctx, "DELETE FROM registrations WHERE id=?", id)
    if err != nil {
        return false, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    if err := tx.Commit(); err != nil {
        return false, err
    }
    committed = true
    return affected > 0, nil
}

// CheckIn flips checked_in from 0 to 1 exactly once.  It returns false
// when the row does not exist or is already checked in; the conditional
// UPDATE makes the transition race-safe without an explicit transaction.
func (r *RegistrationRepo) CheckIn(ctx context.Context, id int64) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        "UPDATE registrations SET checked_in=1 WHERE id=? AND checked_in=0", id)
    if err != nil {
        return false, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return affected > 0, nil
}

// UncheckIn resets checked_in unconditionally (an admin-only override) and
// reports whether a row was affected.
func (r *RegistrationRepo) UncheckIn(ctx context.Context, id int64) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        "UPDATE registrations SET checked_in=0 WHERE id=? AND checked_in=1", id)
    if err != nil {
        return false, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return affected > 0, nil
}

// SignupCount returns how many registrations exist for an activity
// timeslot.  It is used both to render availability and (inside Create's
// transaction) to gate submission.
func (r *RegistrationRepo) SignupCount(ctx context.Context, activity, timeslot string) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM registrations WHERE activity=? AND timeslot=?",
        activity, timeslot).Scan(&n)
    return n, err
}

// SlotCounts returns the signup count per timeslot for one activity in a
// single query; timeslots with no registrations are simply absent.
func (r *RegistrationRepo) SlotCounts(ctx context.Context, activity string) (map[string]int, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT timeslot, COUNT(*) FROM registrations WHERE activity=? GROUP BY timeslot",
        activity)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    counts := make(map[string]int)
    for rows.Next() {
        var (
            slot string
            n    int
        )
        if err := rows.Scan(&slot, &n); err != nil {
            return nil, err
        }
        counts[slot] = n
    }
    return counts, rows.Err()
}

// GetByID fetches one registration.  ErrNotFound when no row exists.
func (r *RegistrationRepo) GetByID(ctx context.Context, id int64) (*model.Registration, error) {
    row := r.db.QueryRowContext(ctx, selectRegistration+" WHERE id=? LIMIT 1", id)
    return scanRegistration(row)
}

// FindByPassphrase looks a registration up by its exact stored passphrase.
// The caller must normalize input (trim, lower-case, hyphens) first.
// ErrNotFound when no row matches.
func (r *RegistrationRepo) FindByPassphrase(ctx context.Context, phrase string) (*model.Registration, error) {
    row := r.db.QueryRowContext(ctx, selectRegistration+" WHERE passphrase=? LIMIT 1", phrase)
    return scanRegistration(row)
}

// ListByParticipant returns a participant's registrations, newest first.
func (r *RegistrationRepo) ListByParticipant(ctx context.Context, participantID string) ([]model.Registration, error) {
    return r.list(ctx,
        selectRegistration+" WHERE participant_id=? ORDER BY created_at DESC, id DESC",
        participantID)
}

// ListBySlot returns the roster for one activity timeslot in booking order.
func (r *RegistrationRepo) ListBySlot(ctx context.Context, activity, timeslot string) ([]model.Registration, error) {
    return r.list(ctx,
        selectRegistration+" WHERE activity=? AND timeslot=? ORDER BY created_at, id",
        activity, timeslot)
}

// TotalCount returns the number of live registrations.
func (r *RegistrationRepo) TotalCount(ctx context.Context) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM registrations").Scan(&n)
    return n, err
}

// CheckedInCount returns how many registrations have been checked in.
func (r *RegistrationRepo) CheckedInCount(ctx context.Context) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM registrations WHERE checked_in=1").Scan(&n)
    return n, err
}

// StatsByActivity returns total and checked-in counts grouped by activity.
func (r *RegistrationRepo) StatsByActivity(ctx context.Context) ([]model.ActivityStats, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT activity, COUNT(*), SUM(checked_in)
         FROM registrations GROUP BY activity ORDER BY activity`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    stats := make([]model.ActivityStats, 0)
    for rows.Next() {
        var (
            s       model.ActivityStats
            checked sql.NullInt64
        )
        if err := rows.Scan(&s.Activity, &s.Total, &checked); err != nil {
            return nil, err
        }
        if checked.Valid {
            s.CheckedIn = int(checked.Int64)
        }
        stats = append(stats, s)
    }
    return stats, rows.Err()
}

const selectRegistration = `SELECT id, participant_id, participant_name, activity, timeslot, passphrase, created_at, checked_in FROM registrations`

// scanRegistration scans one row from a selectRegistration query.
func scanRegistration(row *sql.Row) (*model.Registration, error) {
    var (
        reg     model.Registration
        created string
    )
    err := row.Scan(&reg.ID, &reg.ParticipantID, &reg.ParticipantName,
        &reg.Activity, &reg.Timeslot, &reg.Passphrase, &created, &reg.CheckedIn)
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if t, err2 := time.Parse(timeLayout, created); err2 == nil {
        reg.CreatedAt = t.UTC()
    }
    return &reg, nil
}

// list runs a selectRegistration query and scans every row.
func (r *RegistrationRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Registration, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    regs := make([]model.Registration, 0)
    for rows.Next() {
        var (
            reg     model.Registration
            created string
        )
        if err := rows.Scan(&reg.ID, &reg.ParticipantID, &reg.ParticipantName,
            &reg.Activity, &reg.Timeslot, &reg.Passphrase, &created, &reg.CheckedIn); err != nil {
            return nil, err
        }
        if t, err2 := time.Parse(timeLayout, created); err2 == nil {
            reg.CreatedAt = t.UTC()
        }
        regs = append(regs, reg)
    }
    return regs, rows.Err()
}

// passphraseExistsTx reports whether a passphrase is already stored, read
// within the signup transaction.
func passphraseExistsTx(ctx context.Context, tx *sql.Tx, candidate string) (bool, error) {
    var one int
    err := tx.QueryRowContext(ctx,
        "SELECT 1 FROM registrations WHERE passphrase=? LIMIT 1", candidate).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}
