package model

// Badge is a named achievement derived from a participant's aggregate
// statistics. Badges are computed on demand and never persisted.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}
