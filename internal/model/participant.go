package model

import "time"

// Participant represents a row in the `participants` table.  The ID is an
// opaque string minted by the presentation layer when a visitor first
// interacts with the service; rows are created once and never deleted in
// normal operation.  The name is fixed at creation.
//
// Fields:
//  ID        – opaque participant identifier (primary key).
//  Name      – display name captured at creation.
//  CreatedAt – timestamp of first interaction.
type Participant struct {
    ID        string    `json:"id"`         // participants.id
    Name      string    `json:"name"`       // participants.name
    CreatedAt time.Time `json:"created_at"` // participants.created_at
}
