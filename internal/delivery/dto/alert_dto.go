package dto

// LocationAlertRequest carries coordinates scanned-and-shared by whoever
// found the pet. Pointers distinguish absent fields from zero coordinates.
type LocationAlertRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp string   `json:"timestamp"`
}

// ManualLocationAlertRequest carries a free-text location report.
type ManualLocationAlertRequest struct {
	LocationDescription string `json:"locationDescription"`
	ContactInfo         string `json:"contactInfo"`
	Timestamp           string `json:"timestamp"`
}
