package domain

import "time"

type Room struct {
	ID              string
	Name            string
	Private         bool
	MaxParticipants int
	CreatorID       string
	Members         map[string]struct{}
	CreatedAt       time.Time
}

// RoomInfo is the point-in-time listing entry for a public room.
type RoomInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Participants    int    `json:"participants"`
	MaxParticipants int    `json:"maxParticipants"`
}
