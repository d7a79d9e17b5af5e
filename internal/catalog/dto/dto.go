package dto

type ItemFilters struct {
	PropertyID  string `json:"property_id"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"is_active"`
	SearchQuery string `json:"search_query"` // name, code, description
	SortBy      string `json:"sort_by"`      // name, price, created_at
	SortOrder   string `json:"sort_order"`   // asc, desc
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}
