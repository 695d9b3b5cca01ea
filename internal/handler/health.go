package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health reports liveness.  It deliberately touches nothing: a database or
// broker outage degrades features but should not flap the health probe.
func Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
