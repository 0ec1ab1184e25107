package domain

import (
	"context"
	"time"
)

// ScheduleFetcher fetches an external schedule (Sessionize or a test double).
type ScheduleFetcher interface {
	Fetch(ctx context.Context, sessionizeID string) (ScheduleResponse, error)
}

// ScheduleResponse is the subset of the Sessionize All API response used for rundowns.
type ScheduleResponse struct {
	Sessions []ScheduleSession `json:"sessions"`
	Rooms    []ScheduleRoom    `json:"rooms"`
}

// ScheduleRoom is a room in the Sessionize All response (flat list).
type ScheduleRoom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ScheduleSession is a session in the Sessionize All response.
type ScheduleSession struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartsAt         time.Time `json:"startsAt"`
	EndsAt           time.Time `json:"endsAt"`
	RoomID           int       `json:"roomId"`
	IsServiceSession bool      `json:"isServiceSession"`
}
