package model

import "time"

// RankingEntry is a participant's scoring snapshot. Weekly and total points
// move with every completion; previous-week points change only at the weekly
// reset. XP diverges from total points because of urgency bonuses.
type RankingEntry struct {
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	WeeklyPoints   int       `json:"weekly_points"`
	TotalPoints    int       `json:"total_points"`
	PreviousPoints int       `json:"previous_points"`
	XP             int       `json:"xp"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserStats is the profile view: counters plus the level derived from XP.
type UserStats struct {
	UserID          int64  `json:"user_id"`
	Name            string `json:"name"`
	XP              int    `json:"xp"`
	Level           int    `json:"level"`
	WeeklyPoints    int    `json:"weekly_points"`
	TotalPoints     int    `json:"total_points"`
	PreviousPoints  int    `json:"previous_points"`
	CompletionCount int    `json:"completion_count"`
}
