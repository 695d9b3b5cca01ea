package handler

import (
    "context"  // provides context with cancellation for DB calls
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/event-day-signup/internal/config"
    "github.com/iliyamo/event-day-signup/internal/repository"
    "github.com/iliyamo/event-day-signup/internal/utils"
)

// staffRole is the role claim issued to the configured staff account.
const staffRole = "ADMIN"

// AuthHandler bundles dependencies for the staff auth endpoints.  There is
// a single staff account whose credentials come from configuration; only
// refresh-token sessions live in the database.
type AuthHandler struct {
    Cfg      config.Config
    Sessions *repository.SessionRepo
}

func NewAuthHandler(cfg config.Config, sessions *repository.SessionRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Sessions: sessions}
}

// ----- DTOs -----

type loginReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type authResp struct {
    Username string    `json:"username"`
    Role     string    `json:"role"`
    Access   tokenPart `json:"access"`
    Refresh  tokenPart `json:"refresh"`
}

// Login verifies the configured credential pair and returns a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
    }
    if req.Username != h.Cfg.AdminUser || !h.verifyPassword(req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    return h.issuePair(c, ctx, req.Username, http.StatusOK)
}

// Refresh validates a refresh token by hash, revokes it, and issues a new
// pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    subject, err := h.Sessions.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    _ = h.Sessions.RevokeByHash(ctx, hash)

    return h.issuePair(c, ctx, subject, http.StatusOK)
}

// Logout revokes the presented refresh token.  Revoking a token that is
// already invalid still answers 204 so the call is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    if err := h.Sessions.RevokeByHash(ctx, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// verifyPassword checks the candidate against the bcrypt hash when one is
// configured, falling back to a constant comparison with the plaintext
// secret for local setups.
func (h *AuthHandler) verifyPassword(candidate string) bool {
    if h.Cfg.AdminPassHash != "" {
        return utils.VerifyPassword(h.Cfg.AdminPassHash, candidate)
    }
    return h.Cfg.AdminPass != "" && candidate == h.Cfg.AdminPass
}

// issuePair mints an access/refresh pair for subject and writes the JSON
// response with the given status.
func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, subject string, status int) error {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, subject, staffRole, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Sessions.StoreRefresh(ctx, subject, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }
    return c.JSON(status, authResp{
        Username: subject,
        Role:     staffRole,
        Access:   tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh:  tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    })
}
