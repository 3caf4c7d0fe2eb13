package model

import "time"

// ChatMessage is a persisted chat line. UserName is a snapshot so history
// survives account deletion.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CongratulatoryMessage is one of the rotating messages shown after a
// completion.
type CongratulatoryMessage struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
