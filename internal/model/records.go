package model

// Category groups systems on the dashboard.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// System is a monitored service. CategoryID may point at a category that no longer exists.
type System struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}

// StatusEntry is one status report for a system on a calendar day.
type StatusEntry struct {
	ID          string             `json:"id"`
	SystemID    string             `json:"systemId"`
	Date        string             `json:"date"` // YYYY-MM-DD
	Status      AvailabilityStatus `json:"status"`
	Description string             `json:"description"`
}
