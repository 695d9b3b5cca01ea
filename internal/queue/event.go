// Package queue defines message payloads exchanged over the message broker.
package queue

// Registration event kinds published to the registration.events queue.
const (
    KindCreated   = "created"
    KindCheckedIn = "checked_in"
    KindCancelled = "cancelled"
)

// RegistrationEvent is published whenever a registration is created,
// checked in, or cancelled.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type RegistrationEvent struct {
    Kind            string `json:"kind"`
    RegistrationID  int64  `json:"registration_id"`
    ParticipantID   string `json:"participant_id"`
    ParticipantName string `json:"participant_name"`
    Activity        string `json:"activity"`
    Timeslot        string `json:"timeslot"`
    Passphrase      string `json:"passphrase,omitempty"`
    OccurredAt      string `json:"occurred_at"`
}
