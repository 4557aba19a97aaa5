package attendance

import "time"

// MarkRequest marks a user's arrival or departure. UserID defaults to the caller.
type MarkRequest struct {
	UserID *string    `json:"user_id,omitempty" validate:"omitempty,uuid"`
	At     *time.Time `json:"at,omitempty"`
}

// RecordResponse represents an attendance record
type RecordResponse struct {
	ID              string     `json:"id"`
	MeetingID       string     `json:"meeting_id"`
	UserID          string     `json:"user_id"`
	Status          string     `json:"status"`
	ArrivedAt       time.Time  `json:"arrived_at"`
	DepartedAt      *time.Time `json:"departed_at,omitempty"`
	DurationMinutes *float64   `json:"duration_minutes,omitempty"`
}

// SummaryResponse is a meeting's attendance with counts per status
type SummaryResponse struct {
	MeetingID string            `json:"meeting_id"`
	Records   []*RecordResponse `json:"records"`
	Present   int               `json:"present"`
	Late      int               `json:"late"`
	Departed  int               `json:"departed"`
}
