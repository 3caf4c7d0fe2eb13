package model

import "time"

// ObjectiveType selects which completions count toward an objective.
type ObjectiveType string

const (
	ObjectiveCumulative ObjectiveType = "cumulative"
	ObjectiveCategory   ObjectiveType = "category"
)

// Objective is a shared household goal. Progress is derived from the
// completion ledger at read time, never stored.
type Objective struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	TargetPoints   int           `json:"target_points"`
	TargetType     ObjectiveType `json:"target_type"`
	TargetCategory string        `json:"target_category,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ObjectiveProgress is an objective with its derived state.
type ObjectiveProgress struct {
	Objective
	CurrentPoints int  `json:"current_points"`
	Achieved      bool `json:"achieved"`
}
