package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-day-signup/internal/config"
    "github.com/iliyamo/event-day-signup/internal/passphrase"
    "github.com/iliyamo/event-day-signup/internal/queue"
    "github.com/iliyamo/event-day-signup/internal/repository"
)

// AdminHandler serves the staff desk: rosters, passphrase lookup, check-in
// and aggregate stats.
type AdminHandler struct {
    Catalog config.Catalog
    Regs    *repository.RegistrationRepo
}

func NewAdminHandler(catalog config.Catalog, regs *repository.RegistrationRepo) *AdminHandler {
    return &AdminHandler{Catalog: catalog, Regs: regs}
}

// SlotRoster lists the registrations for one activity timeslot in booking
// order.
func (h *AdminHandler) SlotRoster(c echo.Context) error {
    activityName := c.QueryParam("activity")
    timeslot := c.QueryParam("timeslot")
    activity, ok := h.Catalog.Get(activityName)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown activity"})
    }
    if !h.Catalog.HasSlot(activity, timeslot) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown timeslot"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    regs, err := h.Regs.ListBySlot(ctx, activity.Name, timeslot)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "activity":      activity.Name,
        "timeslot":      timeslot,
        "capacity":      activity.Capacity,
        "registrations": regs,
    })
}

// FindByPassphrase resolves a spoken or typed passphrase to its
// registration.  Input is normalized first, so "Alpha Bravo Charlie Delta"
// and "alpha-bravo-charlie-delta" find the same row.
func (h *AdminHandler) FindByPassphrase(c echo.Context) error {
    phrase := passphrase.Normalize(c.Param("passphrase"))
    if phrase == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "passphrase required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    reg, err := h.Regs.FindByPassphrase(ctx, phrase)
    if err == repository.ErrNotFound {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no registration for passphrase"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, reg)
}

// CheckIn marks a registration as arrived.  The response reports whether
// this call performed the transition; repeating it is harmless.
func (h *AdminHandler) CheckIn(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    reg, err := h.Regs.GetByID(ctx, id)
    if err == repository.ErrNotFound {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    changed, err := h.Regs.CheckIn(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
    }
    if changed {
        publishEvent(queue.RegistrationEvent{
            Kind:            queue.KindCheckedIn,
            RegistrationID:  reg.ID,
            ParticipantID:   reg.ParticipantID,
            ParticipantName: reg.ParticipantName,
            Activity:        reg.Activity,
            Timeslot:        reg.Timeslot,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "checked_in": true, "changed": changed})
}

// UncheckIn reverses a mistaken check-in.
func (h *AdminHandler) UncheckIn(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    if _, err := h.Regs.GetByID(ctx, id); err != nil {
        if err == repository.ErrNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    changed, err := h.Regs.UncheckIn(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "uncheck failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "checked_in": false, "changed": changed})
}

// Stats returns event-wide totals with a per-activity breakdown.
func (h *AdminHandler) Stats(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    total, err := h.Regs.TotalCount(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    checked, err := h.Regs.CheckedInCount(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    byActivity, err := h.Regs.StatsByActivity(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "total":       total,
        "checked_in":  checked,
        "by_activity": byActivity,
    })
}
