package model

import "time"

// Game is a competitive game teams score points in.
type Game struct {
    ID   int64  `json:"id"`   // competitive_games.id
    Name string `json:"name"` // competitive_games.name
}

// Team is a scoring team on the scoreboard.
type Team struct {
    ID   int64  `json:"id"`   // teams.id
    Name string `json:"name"` // teams.name
}

// Score is one team's points in one game.
type Score struct {
    ID            int64     `json:"id"`              // game_scores.id
    GameID        int64     `json:"game_id"`         // game_scores.game_id
    TeamID        int64     `json:"team_id"`         // game_scores.team_id
    Score         int       `json:"score"`           // game_scores.score
    LastUpdatedAt time.Time `json:"last_updated_at"` // game_scores.last_updated_at
}

// TeamTotal is a team's summed score across all games, for ranking.
type TeamTotal struct {
    Team  string `json:"team"`
    Total int    `json:"total"`
}

// Scoreboard is the pivoted team-by-game score table served to clients.
// Scores maps team name to game name to points; teams without a recorded
// score for a game appear with zero so every cell is present.
type Scoreboard struct {
    Games  []string                  `json:"games"`
    Teams  []string                  `json:"teams"`
    Scores map[string]map[string]int `json:"scores"`
    Totals []TeamTotal               `json:"totals"`
}
