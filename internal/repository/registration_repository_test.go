package repository_test

import (
    "context"
    "fmt"
    "sync"
    "sync/atomic"
    "testing"

    "github.com/iliyamo/event-day-signup/internal/passphrase"
    "github.com/iliyamo/event-day-signup/internal/repository"
    "github.com/iliyamo/event-day-signup/internal/testutil"
)

func newLedger(t *testing.T) (*repository.RegistrationRepo, *repository.ParticipantRepo) {
    t.Helper()
    db := testutil.OpenDB(t)
    participants := repository.NewParticipantRepo(db)
    gen := passphrase.NewGenerator("no-such-file") // fallback word list
    return repository.NewRegistrationRepo(db, participants, gen), participants
}

func TestCreateReturnsStoredRegistration(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    reg, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 5)
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    if reg.ID <= 0 {
        t.Fatalf("expected assigned id, got %d", reg.ID)
    }
    if reg.Passphrase == "" {
        t.Fatalf("expected a passphrase")
    }
    if reg.CheckedIn {
        t.Fatalf("new registration must not be checked in")
    }

    got, err := regs.GetByID(ctx, reg.ID)
    if err != nil {
        t.Fatalf("get: %v", err)
    }
    if got.ParticipantID != "p1" || got.Activity != "Yoga" || got.Timeslot != "14:30" {
        t.Fatalf("stored row mismatch: %+v", got)
    }
    if got.Passphrase != reg.Passphrase {
        t.Fatalf("passphrase mismatch: %q vs %q", got.Passphrase, reg.Passphrase)
    }
}

func TestCreateRejectsSecondRegistrationAnywhere(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    if _, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 5); err != nil {
        t.Fatalf("first create: %v", err)
    }
    // Same participant, different activity and slot: still rejected.
    _, err := regs.Create(ctx, "p1", "Dana", "Archery", "15:00", 5)
    if err != repository.ErrLimitReached {
        t.Fatalf("expected ErrLimitReached, got %v", err)
    }
}

func TestCreateRejectsFullSlot(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    if _, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 1); err != nil {
        t.Fatalf("first create: %v", err)
    }
    _, err := regs.Create(ctx, "p2", "Eli", "Yoga", "14:30", 1)
    if err != repository.ErrSlotFull {
        t.Fatalf("expected ErrSlotFull, got %v", err)
    }
    // The same slot for a different activity is unaffected.
    if _, err := regs.Create(ctx, "p2", "Eli", "Archery", "14:30", 1); err != nil {
        t.Fatalf("other activity should be free: %v", err)
    }
}

func TestConcurrentSignupsSameParticipant(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    const workers = 8
    var wg sync.WaitGroup
    var created int64
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func(slot int) {
            defer wg.Done()
            _, err := regs.Create(ctx, "p1", "Dana", "Yoga", fmt.Sprintf("%02d:00", 10+slot), 5)
            switch err {
            case nil:
                atomic.AddInt64(&created, 1)
            case repository.ErrLimitReached, repository.ErrConflict:
            default:
                t.Errorf("unexpected error: %v", err)
            }
        }(i)
    }
    wg.Wait()

    if created != 1 {
        t.Fatalf("expected exactly one successful signup, got %d", created)
    }
    list, err := regs.ListByParticipant(ctx, "p1")
    if err != nil {
        t.Fatalf("list: %v", err)
    }
    if len(list) != 1 {
        t.Fatalf("expected one stored row, got %d", len(list))
    }
}

func TestConcurrentSignupsRespectCapacity(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    const workers = 10
    const capacity = 3
    var wg sync.WaitGroup
    var created int64
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func(n int) {
            defer wg.Done()
            pid := fmt.Sprintf("p%d", n)
            _, err := regs.Create(ctx, pid, "Guest", "Yoga", "14:30", capacity)
            switch err {
            case nil:
                atomic.AddInt64(&created, 1)
            case repository.ErrSlotFull, repository.ErrConflict:
            default:
                t.Errorf("unexpected error: %v", err)
            }
        }(i)
    }
    wg.Wait()

    if created != capacity {
        t.Fatalf("expected %d successful signups, got %d", capacity, created)
    }
    n, err := regs.SignupCount(ctx, "Yoga", "14:30")
    if err != nil {
        t.Fatalf("count: %v", err)
    }
    if n != capacity {
        t.Fatalf("expected %d stored rows, got %d", capacity, n)
    }
}

func TestPassphrasesAreUnique(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    seen := map[string]bool{}
    for i := 0; i < 20; i++ {
        reg, err := regs.Create(ctx, fmt.Sprintf("p%d", i), "Guest", "Yoga", "14:30", 100)
        if err != nil {
            t.Fatalf("create %d: %v", i, err)
        }
        if seen[reg.Passphrase] {
            t.Fatalf("duplicate passphrase %q", reg.Passphrase)
        }
        seen[reg.Passphrase] = true
    }
}

func TestFindByPassphraseRoundTrip(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    reg, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 5)
    if err != nil {
        t.Fatalf("create: %v", err)
    }

    // A staff member reads the display form back to the participant and
    // later types it in; normalizing must recover the stored value.
    spoken := passphrase.Display(reg.Passphrase)
    got, err := regs.FindByPassphrase(ctx, passphrase.Normalize(spoken))
    if err != nil {
        t.Fatalf("find: %v", err)
    }
    if got.ID != reg.ID {
        t.Fatalf("found wrong registration: %d vs %d", got.ID, reg.ID)
    }

    if _, err := regs.FindByPassphrase(ctx, "not-a-real-passphrase"); err != repository.ErrNotFound {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestCheckInTogglesExactlyOnce(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    reg, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 5)
    if err != nil {
        t.Fatalf("create: %v", err)
    }

    changed, err := regs.CheckIn(ctx, reg.ID)
    if err != nil || !changed {
        t.Fatalf("first check-in: changed=%v err=%v", changed, err)
    }
    changed, err = regs.CheckIn(ctx, reg.ID)
    if err != nil || changed {
        t.Fatalf("second check-in should be a no-op: changed=%v err=%v", changed, err)
    }
    got, err := regs.GetByID(ctx, reg.ID)
    if err != nil || !got.CheckedIn {
        t.Fatalf("row should be checked in: %+v err=%v", got, err)
    }

    changed, err = regs.UncheckIn(ctx, reg.ID)
    if err != nil || !changed {
        t.Fatalf("uncheck: changed=%v err=%v", changed, err)
    }
    changed, err = regs.UncheckIn(ctx, reg.ID)
    if err != nil || changed {
        t.Fatalf("second uncheck should be a no-op: changed=%v err=%v", changed, err)
    }

    if changed, err := regs.CheckIn(ctx, 9999); err != nil || changed {
        t.Fatalf("check-in of missing id should report false, got changed=%v err=%v", changed, err)
    }
}

func TestCancelFreesCapacity(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    reg, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 1)
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    if _, err := regs.Create(ctx, "p2", "Eli", "Yoga", "14:30", 1); err != repository.ErrSlotFull {
        t.Fatalf("slot should be full, got %v", err)
    }

    removed, err := regs.Cancel(ctx, reg.ID)
    if err != nil || !removed {
        t.Fatalf("cancel: removed=%v err=%v", removed, err)
    }
    // Cancelling again is an idempotent miss, not an error.
    removed, err = regs.Cancel(ctx, reg.ID)
    if err != nil || removed {
        t.Fatalf("second cancel: removed=%v err=%v", removed, err)
    }

    // The freed seat is bookable again, and p1 may rebook too.
    if _, err := regs.Create(ctx, "p2", "Eli", "Yoga", "14:30", 1); err != nil {
        t.Fatalf("rebooking freed slot: %v", err)
    }
    if _, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:50", 1); err != nil {
        t.Fatalf("cancelled participant should be free to rebook: %v", err)
    }
}

func TestCancelRejectedAfterCheckIn(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    reg, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 5)
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    if _, err := regs.CheckIn(ctx, reg.ID); err != nil {
        t.Fatalf("check-in: %v", err)
    }
    if _, err := regs.Cancel(ctx, reg.ID); err != repository.ErrConflict {
        t.Fatalf("expected ErrConflict cancelling a checked-in registration, got %v", err)
    }
    if _, err := regs.GetByID(ctx, reg.ID); err != nil {
        t.Fatalf("registration must survive the rejected cancel: %v", err)
    }
}

func TestSlotCountsAndRosterOrder(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    for i, slot := range []string{"14:30", "14:30", "14:50"} {
        pid := fmt.Sprintf("p%d", i)
        if _, err := regs.Create(ctx, pid, fmt.Sprintf("Guest %d", i), "Yoga", slot, 5); err != nil {
            t.Fatalf("create %d: %v", i, err)
        }
    }

    counts, err := regs.SlotCounts(ctx, "Yoga")
    if err != nil {
        t.Fatalf("slot counts: %v", err)
    }
    if counts["14:30"] != 2 || counts["14:50"] != 1 {
        t.Fatalf("counts = %v", counts)
    }

    roster, err := regs.ListBySlot(ctx, "Yoga", "14:30")
    if err != nil {
        t.Fatalf("roster: %v", err)
    }
    if len(roster) != 2 {
        t.Fatalf("expected 2 on roster, got %d", len(roster))
    }
    if roster[0].ID > roster[1].ID {
        t.Fatalf("roster should be in booking order: %+v", roster)
    }
}

func TestStats(t *testing.T) {
    regs, _ := newLedger(t)
    ctx := context.Background()

    r1, _ := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 5)
    regs.Create(ctx, "p2", "Eli", "Yoga", "14:50", 5)
    regs.Create(ctx, "p3", "Noa", "Archery", "14:30", 5)
    if _, err := regs.CheckIn(ctx, r1.ID); err != nil {
        t.Fatalf("check-in: %v", err)
    }

    total, err := regs.TotalCount(ctx)
    if err != nil || total != 3 {
        t.Fatalf("total = %d err=%v", total, err)
    }
    checked, err := regs.CheckedInCount(ctx)
    if err != nil || checked != 1 {
        t.Fatalf("checked = %d err=%v", checked, err)
    }

    stats, err := regs.StatsByActivity(ctx)
    if err != nil {
        t.Fatalf("stats: %v", err)
    }
    if len(stats) != 2 {
        t.Fatalf("expected 2 activities, got %+v", stats)
    }
    // Ordered by activity name.
    if stats[0].Activity != "Archery" || stats[0].Total != 1 || stats[0].CheckedIn != 0 {
        t.Fatalf("archery stats = %+v", stats[0])
    }
    if stats[1].Activity != "Yoga" || stats[1].Total != 2 || stats[1].CheckedIn != 1 {
        t.Fatalf("yoga stats = %+v", stats[1])
    }
}

func TestParticipantCreateIsIdempotent(t *testing.T) {
    regs, participants := newLedger(t)
    ctx := context.Background()

    if err := participants.Create(ctx, "p1", "Dana"); err != nil {
        t.Fatalf("create: %v", err)
    }
    // A second create with a different name succeeds but never updates.
    if err := participants.Create(ctx, "p1", "Someone Else"); err != nil {
        t.Fatalf("repeat create: %v", err)
    }
    p, err := participants.Find(ctx, "p1")
    if err != nil {
        t.Fatalf("find: %v", err)
    }
    if p.Name != "Dana" {
        t.Fatalf("name must stay fixed, got %q", p.Name)
    }

    if _, err := participants.Find(ctx, "missing"); err != repository.ErrNotFound {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }

    // Signup for an existing participant reuses the row.
    if _, err := regs.Create(ctx, "p1", "Dana", "Yoga", "14:30", 5); err != nil {
        t.Fatalf("signup: %v", err)
    }
}
