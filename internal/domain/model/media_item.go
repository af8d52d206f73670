package model

import (
	"time"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
)

// MediaItem is one reviewable unit of a task. Items are append-only: a new
// version adds rows and prior decisions are kept as history.
type MediaItem struct {
	ID        int64          `json:"id"`
	TaskID    int64          `json:"task_id"`
	SourceURL string         `json:"source_url"`
	Decision  enums.Decision `json:"decision"`
	Feedback  string         `json:"feedback,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
