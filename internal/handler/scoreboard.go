package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-day-signup/internal/repository"
)

// ScoreboardHandler serves the competitive-games scoreboard: a public
// pivot view plus staff-only CRUD for games, teams and scores.
type ScoreboardHandler struct {
    Board *repository.ScoreboardRepo
}

func NewScoreboardHandler(board *repository.ScoreboardRepo) *ScoreboardHandler {
    return &ScoreboardHandler{Board: board}
}

type namedReq struct {
    Name string `json:"name"`
}
type scoreReq struct {
    GameID int64 `json:"game_id"`
    TeamID int64 `json:"team_id"`
    Score  int   `json:"score"`
}

// Get returns the pivoted scoreboard with team totals.
func (h *ScoreboardHandler) Get(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    board, err := h.Board.Pivot(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, board)
}

// AddGame creates a game column on the scoreboard.
func (h *ScoreboardHandler) AddGame(c echo.Context) error {
    return h.addNamed(c, h.Board.AddGame)
}

// AddTeam creates a team row on the scoreboard.
func (h *ScoreboardHandler) AddTeam(c echo.Context) error {
    return h.addNamed(c, h.Board.AddTeam)
}

func (h *ScoreboardHandler) addNamed(c echo.Context, add func(context.Context, string) (int64, error)) error {
    var req namedReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    id, err := add(ctx, req.Name)
    if err == repository.ErrConflict {
        return c.JSON(http.StatusConflict, echo.Map{"error": "name missing or already taken"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
}

// DeleteGame removes a game and its scores.
func (h *ScoreboardHandler) DeleteGame(c echo.Context) error {
    return h.deleteByID(c, h.Board.DeleteGame)
}

// DeleteTeam removes a team and its scores.
func (h *ScoreboardHandler) DeleteTeam(c echo.Context) error {
    return h.deleteByID(c, h.Board.DeleteTeam)
}

func (h *ScoreboardHandler) deleteByID(c echo.Context, del func(context.Context, int64) (bool, error)) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    removed, err := del(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    if !removed {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    }
    return c.NoContent(http.StatusNoContent)
}

// UpsertScore sets a team's score in a game, replacing any previous value.
func (h *ScoreboardHandler) UpsertScore(c echo.Context) error {
    var req scoreReq
    if err := c.Bind(&req); err != nil || req.GameID <= 0 || req.TeamID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "game_id and team_id required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    if err := h.Board.UpsertScore(ctx, req.GameID, req.TeamID, req.Score); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "unknown game or team"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "game_id": req.GameID,
        "team_id": req.TeamID,
        "score":   req.Score,
    })
}
