package repository_test

import (
    "context"
    "testing"

    "github.com/iliyamo/event-day-signup/internal/repository"
    "github.com/iliyamo/event-day-signup/internal/testutil"
)

func newBoard(t *testing.T) *repository.ScoreboardRepo {
    t.Helper()
    return repository.NewScoreboardRepo(testutil.OpenDB(t))
}

func TestAddGameAndTeamRejectDuplicates(t *testing.T) {
    board := newBoard(t)
    ctx := context.Background()

    if _, err := board.AddGame(ctx, "Tug of War"); err != nil {
        t.Fatalf("add game: %v", err)
    }
    if _, err := board.AddGame(ctx, "Tug of War"); err != repository.ErrConflict {
        t.Fatalf("duplicate game: expected ErrConflict, got %v", err)
    }
    if _, err := board.AddGame(ctx, "   "); err != repository.ErrConflict {
        t.Fatalf("blank game: expected ErrConflict, got %v", err)
    }

    if _, err := board.AddTeam(ctx, "Red"); err != nil {
        t.Fatalf("add team: %v", err)
    }
    if _, err := board.AddTeam(ctx, "Red"); err != repository.ErrConflict {
        t.Fatalf("duplicate team: expected ErrConflict, got %v", err)
    }
}

func TestUpsertScoreOverwrites(t *testing.T) {
    board := newBoard(t)
    ctx := context.Background()

    gameID, _ := board.AddGame(ctx, "Relay")
    teamID, _ := board.AddTeam(ctx, "Blue")

    if err := board.UpsertScore(ctx, gameID, teamID, 7); err != nil {
        t.Fatalf("insert score: %v", err)
    }
    if err := board.UpsertScore(ctx, gameID, teamID, 12); err != nil {
        t.Fatalf("update score: %v", err)
    }

    pivot, err := board.Pivot(ctx)
    if err != nil {
        t.Fatalf("pivot: %v", err)
    }
    if got := pivot.Scores["Blue"]["Relay"]; got != 12 {
        t.Fatalf("score = %d, want 12", got)
    }
}

func TestPivotZeroFillsAndRanksTotals(t *testing.T) {
    board := newBoard(t)
    ctx := context.Background()

    relay, _ := board.AddGame(ctx, "Relay")
    tug, _ := board.AddGame(ctx, "Tug of War")
    red, _ := board.AddTeam(ctx, "Red")
    blue, _ := board.AddTeam(ctx, "Blue")

    board.UpsertScore(ctx, relay, red, 5)
    board.UpsertScore(ctx, tug, red, 3)
    board.UpsertScore(ctx, relay, blue, 10)
    // Blue has no Tug of War score; the pivot must still show a zero cell.

    pivot, err := board.Pivot(ctx)
    if err != nil {
        t.Fatalf("pivot: %v", err)
    }
    if len(pivot.Games) != 2 || len(pivot.Teams) != 2 {
        t.Fatalf("pivot shape: games=%v teams=%v", pivot.Games, pivot.Teams)
    }
    if pivot.Scores["Blue"]["Tug of War"] != 0 {
        t.Fatalf("missing score should read 0, got %d", pivot.Scores["Blue"]["Tug of War"])
    }
    if pivot.Scores["Red"]["Relay"] != 5 {
        t.Fatalf("red relay = %d", pivot.Scores["Red"]["Relay"])
    }

    // Totals ranked highest first: Blue 10, Red 8.
    if len(pivot.Totals) != 2 {
        t.Fatalf("totals = %+v", pivot.Totals)
    }
    if pivot.Totals[0].Team != "Blue" || pivot.Totals[0].Total != 10 {
        t.Fatalf("first total = %+v", pivot.Totals[0])
    }
    if pivot.Totals[1].Team != "Red" || pivot.Totals[1].Total != 8 {
        t.Fatalf("second total = %+v", pivot.Totals[1])
    }
}

func TestDeleteCascadesScores(t *testing.T) {
    board := newBoard(t)
    ctx := context.Background()

    relay, _ := board.AddGame(ctx, "Relay")
    red, _ := board.AddTeam(ctx, "Red")
    if err := board.UpsertScore(ctx, relay, red, 4); err != nil {
        t.Fatalf("score: %v", err)
    }

    removed, err := board.DeleteGame(ctx, relay)
    if err != nil || !removed {
        t.Fatalf("delete game: removed=%v err=%v", removed, err)
    }
    // Deleting again reports a miss.
    removed, err = board.DeleteGame(ctx, relay)
    if err != nil || removed {
        t.Fatalf("second delete: removed=%v err=%v", removed, err)
    }

    pivot, err := board.Pivot(ctx)
    if err != nil {
        t.Fatalf("pivot: %v", err)
    }
    if len(pivot.Games) != 0 {
        t.Fatalf("game should be gone, got %v", pivot.Games)
    }
    // The team survives with a zero total.
    if len(pivot.Totals) != 1 || pivot.Totals[0].Total != 0 {
        t.Fatalf("totals after cascade = %+v", pivot.Totals)
    }
}
