package handler

import (
    "context" // provides context with cancellation for DB calls
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-day-signup/internal/config"
    "github.com/iliyamo/event-day-signup/internal/repository"
)

// CatalogHandler serves the activity catalog and per-slot availability.
type CatalogHandler struct {
    Catalog config.Catalog
    Regs    *repository.RegistrationRepo
}

func NewCatalogHandler(catalog config.Catalog, regs *repository.RegistrationRepo) *CatalogHandler {
    return &CatalogHandler{Catalog: catalog, Regs: regs}
}

type slotPart struct {
    Timeslot  string `json:"timeslot"`
    Taken     int    `json:"taken"`
    Capacity  int    `json:"capacity"`
    Available int    `json:"available"`
}

// Activities returns the full catalog with the event window.
func (h *CatalogHandler) Activities(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "activities":  h.Catalog.Activities,
        "event_start": config.FormatClock(h.Catalog.Start),
        "event_end":   config.FormatClock(h.Catalog.End),
    })
}

// ActivitySlots returns the derived timeslots for one activity with live
// signup counts and remaining capacity.
func (h *CatalogHandler) ActivitySlots(c echo.Context) error {
    activity, ok := h.Catalog.Get(c.Param("name"))
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown activity"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    counts, err := h.Regs.SlotCounts(ctx, activity.Name)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    labels := h.Catalog.Timeslots(activity)
    slots := make([]slotPart, 0, len(labels))
    for _, label := range labels {
        taken := counts[label]
        avail := activity.Capacity - taken
        if avail < 0 {
            avail = 0
        }
        slots = append(slots, slotPart{
            Timeslot:  label,
            Taken:     taken,
            Capacity:  activity.Capacity,
            Available: avail,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "activity": activity.Name,
        "slots":    slots,
    })
}
