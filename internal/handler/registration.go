package handler

import (
    "context" // provides context with cancellation for DB calls
    "net/http"
    "time"

    "github.com/google/uuid"      // UUID generation for participant ids
    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/event-day-signup/internal/config"
    "github.com/iliyamo/event-day-signup/internal/passphrase"
    "github.com/iliyamo/event-day-signup/internal/queue"
    "github.com/iliyamo/event-day-signup/internal/repository"
    queue_publisher "github.com/iliyamo/event-day-signup/internal/service"
)

// RegistrationHandler bundles dependencies for the participant-facing
// signup endpoints.
type RegistrationHandler struct {
    Catalog      config.Catalog
    Regs         *repository.RegistrationRepo
    Participants *repository.ParticipantRepo
}

func NewRegistrationHandler(catalog config.Catalog, regs *repository.RegistrationRepo, participants *repository.ParticipantRepo) *RegistrationHandler {
    return &RegistrationHandler{Catalog: catalog, Regs: regs, Participants: participants}
}

// ----- DTOs -----

type createParticipantReq struct {
    Name string `json:"name"`
}
type signupReq struct {
    Activity string `json:"activity"`
    Timeslot string `json:"timeslot"`
    Name     string `json:"name"` // used only when the participant row does not exist yet
}
type signupResp struct {
    ID                int64  `json:"id"`
    Activity          string `json:"activity"`
    Timeslot          string `json:"timeslot"`
    Passphrase        string `json:"passphrase"`
    PassphraseDisplay string `json:"passphrase_display"`
}

// CreateParticipant mints a new participant id and stores the profile.
func (h *RegistrationHandler) CreateParticipant(c echo.Context) error {
    var req createParticipantReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !validName(req.Name) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be at least 2 characters"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    id := uuid.NewString()
    if err := h.Participants.Create(ctx, id, req.Name); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create participant failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
}

// Me returns the profile behind the X-Participant-ID header.
func (h *RegistrationHandler) Me(c echo.Context) error {
    pid := participantID(c)
    if pid == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Participant-ID required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    p, err := h.Participants.Find(ctx, pid)
    if err == repository.ErrNotFound {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown participant"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, p)
}

// Signup books a timeslot for the calling participant.  Capacity, the
// one-booking rule and passphrase uniqueness are enforced by the ledger;
// this handler validates the request shape and translates ledger
// rejections into conflict responses with a machine-readable code.
func (h *RegistrationHandler) Signup(c echo.Context) error {
    pid := participantID(c)
    if pid == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Participant-ID required"})
    }
    var req signupReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    activity, ok := h.Catalog.Get(req.Activity)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown activity"})
    }
    if !h.Catalog.HasSlot(activity, req.Timeslot) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown timeslot"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    // Prefer the stored name; first-time callers must supply one.
    name := req.Name
    if p, err := h.Participants.Find(ctx, pid); err == nil {
        name = p.Name
    } else if err != repository.ErrNotFound {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !validName(name) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be at least 2 characters"})
    }

    reg, err := h.Regs.Create(ctx, pid, name, activity.Name, req.Timeslot, activity.Capacity)
    switch err {
    case nil:
    case repository.ErrLimitReached:
        return c.JSON(http.StatusConflict, echo.Map{"code": "LIMIT_REACHED", "error": "participant already has a registration"})
    case repository.ErrSlotFull:
        return c.JSON(http.StatusConflict, echo.Map{"code": "SLOT_FULL", "error": "timeslot is full"})
    case repository.ErrConflict:
        return c.JSON(http.StatusConflict, echo.Map{"code": "CONFLICT", "error": "registration conflicts with an existing one"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
    }

    publishEvent(queue.RegistrationEvent{
        Kind:            queue.KindCreated,
        RegistrationID:  reg.ID,
        ParticipantID:   reg.ParticipantID,
        ParticipantName: reg.ParticipantName,
        Activity:        reg.Activity,
        Timeslot:        reg.Timeslot,
        Passphrase:      reg.Passphrase,
    })

    return c.JSON(http.StatusCreated, signupResp{
        ID:                reg.ID,
        Activity:          reg.Activity,
        Timeslot:          reg.Timeslot,
        Passphrase:        reg.Passphrase,
        PassphraseDisplay: passphrase.Display(reg.Passphrase),
    })
}

// ListMine returns the caller's registrations, newest first.
func (h *RegistrationHandler) ListMine(c echo.Context) error {
    pid := participantID(c)
    if pid == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Participant-ID required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
    defer cancel()

    regs, err := h.Regs.ListByParticipant(ctx, pid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"registrations": regs})
}

// Cancel removes one of the caller's registrations, freeing its slot.
// Cancelling an id that is already gone is reported as 404 so retries are
// harmless; a checked-in registration stays put and yields 409.
func (h *RegistrationHandler) Cancel(c echo.Context) error {
    pid := participantID(c)
    if pid == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Participant-ID required"})
    }
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
    if reg.ParticipantID != pid {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not your registration"})
    }

    removed, err := h.Regs.Cancel(ctx, id)
    if err == repository.ErrConflict {
        return c.JSON(http.StatusConflict, echo.Map{"code": "CONFLICT", "error": "registration already checked in"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
    }
    if !removed {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
    }

    publishEvent(queue.RegistrationEvent{
        Kind:            queue.KindCancelled,
        RegistrationID:  reg.ID,
        ParticipantID:   reg.ParticipantID,
        ParticipantName: reg.ParticipantName,
        Activity:        reg.Activity,
        Timeslot:        reg.Timeslot,
    })

    return c.NoContent(http.StatusNoContent)
}

// publishEvent fires a broker publish in the background.  Broker outages
// must never affect the request that triggered the event.
func publishEvent(ev queue.RegistrationEvent) {
    ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = queue_publisher.PublishRegistrationEvent(ctx, ev)
    }()
}
