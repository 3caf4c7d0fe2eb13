package model

import "time"

// PodiumPlace is one slot on an archived podium.
type PodiumPlace struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Podium is a top-3 snapshot taken by the weekly reset. Second and third are
// absent when fewer participants scored that week.
type Podium struct {
	ID         int64        `json:"id"`
	ArchivedAt time.Time    `json:"archived_at"`
	First      PodiumPlace  `json:"first"`
	Second     *PodiumPlace `json:"second,omitempty"`
	Third      *PodiumPlace `json:"third,omitempty"`
}
