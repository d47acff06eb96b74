package models

import "time"

// Song represents a downloaded audio file in the library
type Song struct {
	ID              int64
	VideoID         string
	Title           string
	Artist          string
	DurationSeconds int
	Path            string
	CreatedAt       time.Time
}
