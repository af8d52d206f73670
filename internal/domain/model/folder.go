package model

import "time"

// Folder is a manual browsing bucket. At most one folder may exist per
// (client, year, month) tuple; a nil month is its own bucket.
type Folder struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Year      int       `json:"year"`
	Month     *int      `json:"month,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
