package config

// catalog.go holds the activity catalog and the event time window.  Both are
// configuration, not database state: the bookable activities are a small
// fixed list and their timeslots are derived by tiling the event window
// into duration-length intervals.

import (
    "fmt"
    "strconv"
    "strings"
)

// Activity describes one bookable station at the event.
type Activity struct {
    Name     string `json:"name"`     // display name, also the identifier used in registrations
    Capacity int    `json:"capacity"` // maximum concurrent signups per timeslot
    Duration int    `json:"duration"` // slot length in minutes
}

// Catalog is the ordered activity list together with the event window.
// Start and End are minutes from midnight; the window is half-open
// [Start, End) and slots never run past End.
type Catalog struct {
    Activities []Activity
    Start      int
    End        int
}

// Default catalog and window matching the event this service was built for.
const (
    defaultActivities = "Massage by SAVH|15|20"
    defaultEventStart = "14:30"
    defaultEventEnd   = "17:00"
)

// LoadCatalog builds the catalog from environment variables:
//
//	ACTIVITIES  – semicolon-separated entries of "name|capacity|duration"
//	EVENT_START – window start as HH:MM
//	EVENT_END   – window end as HH:MM
//
// Missing or malformed values fall back to the built-in defaults so the
// service always starts with a usable catalog.
func LoadCatalog() Catalog {
    acts := parseActivities(getenv("ACTIVITIES", defaultActivities))
    if len(acts) == 0 {
        acts = parseActivities(defaultActivities)
    }
    start, err := ParseClock(getenv("EVENT_START", defaultEventStart))
    if err != nil {
        start, _ = ParseClock(defaultEventStart)
    }
    end, err := ParseClock(getenv("EVENT_END", defaultEventEnd))
    if err != nil || end <= start {
        end, _ = ParseClock(defaultEventEnd)
    }
    return Catalog{Activities: acts, Start: start, End: end}
}

// Names returns the activity names in catalog order.
func (c Catalog) Names() []string {
    names := make([]string, 0, len(c.Activities))
    for _, a := range c.Activities {
        names = append(names, a.Name)
    }
    return names
}

// Get returns the activity with the given name, matching exactly.
func (c Catalog) Get(name string) (Activity, bool) {
    for _, a := range c.Activities {
        if a.Name == name {
            return a, true
        }
    }
    return Activity{}, false
}

// Timeslots derives the start labels for an activity by tiling the event
// window into non-overlapping duration-length intervals.  A slot is only
// included when the activity would finish before or at the window end, so
// a 45-minute activity in a 14:30–17:00 window yields 14:30, 15:15, 16:00.
func (c Catalog) Timeslots(a Activity) []string {
    slots := []string{}
    if a.Duration <= 0 {
        return slots
    }
    for cur := c.Start; cur+a.Duration <= c.End; cur += a.Duration {
        slots = append(slots, FormatClock(cur))
    }
    return slots
}

// HasSlot reports whether label is one of the derived timeslots for a.
func (c Catalog) HasSlot(a Activity, label string) bool {
    for _, s := range c.Timeslots(a) {
        if s == label {
            return true
        }
    }
    return false
}

// ParseClock converts an "HH:MM" label to minutes from midnight.
func ParseClock(s string) (int, error) {
    parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
    if len(parts) != 2 {
        return 0, fmt.Errorf("invalid clock value %q", s)
    }
    h, err := strconv.Atoi(parts[0])
    if err != nil {
        return 0, fmt.Errorf("invalid clock value %q", s)
    }
    m, err := strconv.Atoi(parts[1])
    if err != nil {
        return 0, fmt.Errorf("invalid clock value %q", s)
    }
    if h < 0 || h > 23 || m < 0 || m > 59 {
        return 0, fmt.Errorf("clock value out of range %q", s)
    }
    return h*60 + m, nil
}

// FormatClock renders minutes from midnight as a zero-padded HH:MM label.
func FormatClock(min int) string {
    return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// parseActivities parses semicolon-separated "name|capacity|duration"
// entries, skipping entries that do not parse to a positive capacity and
// duration.
func parseActivities(raw string) []Activity {
    var acts []Activity
    for _, entry := range strings.Split(raw, ";") {
        fields := strings.Split(entry, "|")
        if len(fields) != 3 {
            continue
        }
        name := strings.TrimSpace(fields[0])
        capacity, err1 := strconv.Atoi(strings.TrimSpace(fields[1]))
        duration, err2 := strconv.Atoi(strings.TrimSpace(fields[2]))
        if name == "" || err1 != nil || err2 != nil || capacity < 1 || duration < 1 {
            continue
        }
        acts = append(acts, Activity{Name: name, Capacity: capacity, Duration: duration})
    }
    return acts
}
