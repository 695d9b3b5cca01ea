// Package handler contains the Echo HTTP handlers for the signup service.
package handler

import (
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
)

// dbTimeoutSeconds bounds the duration of database calls made from handlers.
const dbTimeoutSeconds = 5

// participantID extracts the caller's participant id from the
// X-Participant-ID header.  Empty means the caller has not identified
// itself yet.
func participantID(c echo.Context) string {
    return strings.TrimSpace(c.Request().Header.Get("X-Participant-ID"))
}

// parseID parses a numeric path parameter into an int64.
func parseID(c echo.Context, name string) (int64, bool) {
    id, err := strconv.ParseInt(c.Param(name), 10, 64)
    if err != nil || id <= 0 {
        return 0, false
    }
    return id, true
}

// validName reports whether a participant name is acceptable: at least two
// characters once surrounding whitespace is stripped.
func validName(name string) bool {
    return len(strings.TrimSpace(name)) >= 2
}
