package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/event-day-signup/internal/model"
)

// ScoreboardRepo provides CRUD access to the competitive games scoreboard:
// games, teams and the score of each team in each game.  Deleting a game
// or team cascades to its scores.
type ScoreboardRepo struct{ DB *sql.DB }

// NewScoreboardRepo returns a ScoreboardRepo bound to the given database.
func NewScoreboardRepo(db *sql.DB) *ScoreboardRepo { return &ScoreboardRepo{DB: db} }

// AddGame inserts a game.  ErrConflict when the name is already taken.
func (r *ScoreboardRepo) AddGame(ctx context.Context, name string) (int64, error) {
    return r.addNamed(ctx, "INSERT INTO competitive_games (name) VALUES (?)", name)
}

// AddTeam inserts a team.  ErrConflict when the name is already taken.
func (r *ScoreboardRepo) AddTeam(ctx context.Context, name string) (int64, error) {
    return r.addNamed(ctx, "INSERT INTO teams (name) VALUES (?)", name)
}

func (r *ScoreboardRepo) addNamed(ctx context.Context, query, name string) (int64, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return 0, ErrConflict
    }
    res, err := r.DB.ExecContext(ctx, query, name)
    if err != nil {
        if isDuplicate(err) {
            return 0, ErrConflict
        }
        return 0, err
    }
    return res.LastInsertId()
}

// ListGames returns all games ordered by name.
func (r *ScoreboardRepo) ListGames(ctx context.Context) ([]model.Game, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, name FROM competitive_games ORDER BY name")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    games := make([]model.Game, 0)
    for rows.Next() {
        var g model.Game
        if err := rows.Scan(&g.ID, &g.Name); err != nil {
            return nil, err
        }
        games = append(games, g)
    }
    return games, rows.Err()
}

// ListTeams returns all teams ordered by name.
func (r *ScoreboardRepo) ListTeams(ctx context.Context) ([]model.Team, error) {
    rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM teams ORDER BY name")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    teams := make([]model.Team, 0)
    for rows.Next() {
        var t model.Team
        if err := rows.Scan(&t.ID, &t.Name); err != nil {
            return nil, err
        }
        teams = append(teams, t)
    }
    return teams, rows.Err()
}

// DeleteGame removes a game; its scores go with it via ON DELETE CASCADE.
// Returns whether a row was removed.
func (r *ScoreboardRepo) DeleteGame(ctx context.Context, id int64) (bool, error) {
    return r.deleteByID(ctx, "DELETE FROM competitive_games WHERE id=?", id)
}

// DeleteTeam removes a team and, via cascade, its scores.
func (r *ScoreboardRepo) DeleteTeam(ctx context.Context, id int64) (bool, error) {
    return r.deleteByID(ctx, "DELETE FROM teams WHERE id=?", id)
}

func (r *ScoreboardRepo) deleteByID(ctx context.Context, query string, id int64) (bool, error) {
    res, err := r.DB.ExecContext(ctx, query, id)
    if err != nil {
        return false, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return affected > 0, nil
}

// UpsertScore records a team's score in a game, overwriting any previous
// value.  Update-then-insert inside a transaction keeps the upsert
// portable across both supported drivers.
func (r *ScoreboardRepo) UpsertScore(ctx context.Context, gameID, teamID int64, score int) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    now := time.Now().UTC().Format(timeLayout)
    res, err := tx.ExecContext(ctx,
        "UPDATE game_scores SET score=?, last_updated_at=? WHERE game_id=? AND team_id=?",
        score, now, gameID, teamID)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        var one int
        err = tx.QueryRowContext(ctx,
            "SELECT 1 FROM game_scores WHERE game_id=? AND team_id=? LIMIT 1",
            gameID, teamID).Scan(&one)
        if err == sql.ErrNoRows {
            if _, err := tx.ExecContext(ctx,
                "INSERT INTO game_scores (game_id, team_id, score, last_updated_at) VALUES (?,?,?,?)",
                gameID, teamID, score, now); err != nil {
                if isDuplicate(err) {
                    return ErrConflict
                }
                return err
            }
        } else if err != nil {
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Pivot assembles the full scoreboard: every team crossed with every game,
// missing scores defaulting to zero, plus per-team totals ranked highest
// first.
func (r *ScoreboardRepo) Pivot(ctx context.Context) (*model.Scoreboard, error) {
    games, err := r.ListGames(ctx)
    if err != nil {
        return nil, err
    }
    teams, err := r.ListTeams(ctx)
    if err != nil {
        return nil, err
    }

    board := &model.Scoreboard{
        Games:  make([]string, 0, len(games)),
        Teams:  make([]string, 0, len(teams)),
        Scores: make(map[string]map[string]int, len(teams)),
        Totals: make([]model.TeamTotal, 0, len(teams)),
    }
    for _, g := range games {
        board.Games = append(board.Games, g.Name)
    }
    for _, t := range teams {
        board.Teams = append(board.Teams, t.Name)
        cells := make(map[string]int, len(games))
        for _, g := range games {
            cells[g.Name] = 0
        }
        board.Scores[t.Name] = cells
    }

    rows, err := r.DB.QueryContext(ctx,
        `SELECT t.name, cg.name, gs.score
         FROM game_scores gs
         JOIN teams t ON t.id = gs.team_id
         JOIN competitive_games cg ON cg.id = gs.game_id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var (
            team, game string
            score      int
        )
        if err := rows.Scan(&team, &game, &score); err != nil {
            return nil, err
        }
        if cells, ok := board.Scores[team]; ok {
            cells[game] = score
        }
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }

    trows, err := r.DB.QueryContext(ctx,
        `SELECT t.name, COALESCE(SUM(gs.score), 0)
         FROM teams t
         LEFT JOIN game_scores gs ON gs.team_id = t.id
         GROUP BY t.id, t.name
         ORDER BY 2 DESC, t.name`)
    if err != nil {
        return nil, err
    }
    defer trows.Close()
    for trows.Next() {
        var tt model.TeamTotal
        if err := trows.Scan(&tt.Team, &tt.Total); err != nil {
            return nil, err
        }
        board.Totals = append(board.Totals, tt)
    }
    return board, trows.Err()
}
