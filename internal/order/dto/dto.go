package dto

import "time"

type OrderFilters struct {
	PropertyID     string     `json:"property_id"`
	Status         string     `json:"status"`
	Outlet         string     `json:"outlet"`
	FolioInvoiceID string     `json:"folio_invoice_id"`
	From           *time.Time `json:"from"`
	To             *time.Time `json:"to"`
	Page           int        `json:"page"`
	PageSize       int        `json:"page_size"`
}
