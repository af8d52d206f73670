package dto

import (
	"time"

	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
)

type CreateTaskRequest struct {
	ClientID      *int64     `json:"client_id,omitempty"`
	ClientName    string     `json:"client_name,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Kind          string     `json:"kind,omitempty"`
	Platform      string     `json:"platform,omitempty"`
	Password      string     `json:"password"`
	ExternalURL   string     `json:"external_url,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	MediaURLs     []string   `json:"media_urls,omitempty"`
}

type AddVersionRequest struct {
	URLs []string `json:"urls"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type TaskResponse struct {
	Task  model.Task        `json:"task"`
	Items []model.MediaItem `json:"items,omitempty"`
}

type TaskListResponse struct {
	Tasks []model.Task `json:"tasks"`
}
