package model

import "time"

// Registration records one participant's booking of an activity timeslot.
// The passphrase is the sole check-in credential: globally unique across
// every registration ever created and never reused after cancellation.
// Rows are hard-deleted on cancel, which frees the capacity slot.
//
// Fields:
//  ID              – surrogate key, monotonically assigned.
//  ParticipantID   – owner of the booking.
//  ParticipantName – name snapshot taken at booking time.
//  Activity        – activity name from the configured catalog.
//  Timeslot        – derived HH:MM start label.
//  Passphrase      – lower-case hyphen-joined 4-word credential.
//  CreatedAt       – booking timestamp.
//  CheckedIn       – whether staff confirmed attendance.
type Registration struct {
    ID              int64     `json:"id"`               // registrations.id
    ParticipantID   string    `json:"participant_id"`   // registrations.participant_id
    ParticipantName string    `json:"participant_name"` // registrations.participant_name
    Activity        string    `json:"activity"`         // registrations.activity
    Timeslot        string    `json:"timeslot"`         // registrations.timeslot
    Passphrase      string    `json:"passphrase"`       // registrations.passphrase
    CreatedAt       time.Time `json:"created_at"`       // registrations.created_at
    CheckedIn       bool      `json:"checked_in"`       // registrations.checked_in
}

// ActivityStats aggregates registration counts for one activity.
type ActivityStats struct {
    Activity  string `json:"activity"`
    Total     int    `json:"total"`
    CheckedIn int    `json:"checked_in"`
}
