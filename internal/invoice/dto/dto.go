package dto

import "time"

type InvoiceFilters struct {
	PropertyID string     `json:"property_id"`
	Status     string     `json:"status"`
	GuestName  string     `json:"guest_name"` // prefix, case-insensitive
	RoomNumber string     `json:"room_number"`
	DueBefore  *time.Time `json:"due_before"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}
