package models

// ODSummary aggregates OD requests into counts in a single pass.
type ODSummary struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	ByDepartment map[string]int `json:"by_department"`
	ByCategory   map[string]int `json:"by_category"`
}

// NewODSummary returns a summary with initialised count maps.
func NewODSummary() *ODSummary {
	return &ODSummary{
		ByStatus:     make(map[string]int),
		ByDepartment: make(map[string]int),
		ByCategory:   make(map[string]int),
	}
}
