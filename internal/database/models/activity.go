package models

import "time"

// Activity is one bot interaction: a command name or "download"
type Activity struct {
	ID        int64
	UserID    int64
	Action    string
	CreatedAt time.Time
}

// ActionCount is the number of times an action was performed
type ActionCount struct {
	Action string
	Count  int64
}
