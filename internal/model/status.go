package model

// AvailabilityStatus is the reported availability of a system on a day.
type AvailabilityStatus string

const (
	StatusOperational   AvailabilityStatus = "Operational"
	StatusDegraded      AvailabilityStatus = "Degraded Performance"
	StatusPartialOutage AvailabilityStatus = "Partial Outage"
	StatusFullOutage    AvailabilityStatus = "Full Outage"
	StatusMaintenance   AvailabilityStatus = "Scheduled Maintenance"
	StatusUnknown       AvailabilityStatus = "Unknown"
)

// AllStatuses lists every status in legend order.
var AllStatuses = []AvailabilityStatus{
	StatusOperational,
	StatusDegraded,
	StatusPartialOutage,
	StatusFullOutage,
	StatusMaintenance,
	StatusUnknown,
}

var statusColors = map[AvailabilityStatus]string{
	StatusOperational:   "green",
	StatusDegraded:      "yellow",
	StatusPartialOutage: "orange",
	StatusFullOutage:    "red",
	StatusMaintenance:   "blue",
	StatusUnknown:       "gray",
}

// IsValid reports whether s is one of the six known statuses.
func (s AvailabilityStatus) IsValid() bool {
	_, ok := statusColors[s]
	return ok
}

// Selectable reports whether s may be assigned to a new entry. Unknown is derived only.
func (s AvailabilityStatus) Selectable() bool {
	return s.IsValid() && s != StatusUnknown
}

// Color is the legend colour name of the status.
func (s AvailabilityStatus) Color() string {
	return statusColors[s]
}

// SelectableStatuses returns the statuses offered when logging an entry.
func SelectableStatuses() []AvailabilityStatus {
	out := make([]AvailabilityStatus, 0, len(AllStatuses)-1)
	for _, s := range AllStatuses {
		if s.Selectable() {
			out = append(out, s)
		}
	}
	return out
}
