package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format of WatchlistEntry.AddedDate.
const DateLayout = "2006-01-02"

type WatchlistEntry struct {
	Name       string  `json:"name"`
	Poster     *string `json:"poster"`
	AddedDate  string  `json:"added_date"`
	Watched    bool    `json:"watched"`
	TrailerURL *string `json:"trailer_url"`
}

type AddWatchlistRequest struct {
	Name   string  `json:"name" binding:"required,min=1,max=255"`
	Poster *string `json:"poster,omitempty" binding:"omitempty,url"`
}

type SetWatchedRequest struct {
	Name    string `json:"name" binding:"required"`
	Watched *bool  `json:"watched" binding:"required"`
}

type WatchlistResponse struct {
	Owner   string           `json:"owner"`
	Entries []WatchlistEntry `json:"entries"`
	Total   int              `json:"total"`
}

const (
	WatchlistActionAdded     = "added"
	WatchlistActionRemoved   = "removed"
	WatchlistActionWatched   = "watched"
	WatchlistActionUnwatched = "unwatched"
)

type WatchlistEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	Owner     string    `json:"owner"`
	Action    string    `json:"action"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}
