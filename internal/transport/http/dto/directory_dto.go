package dto

import "github.com/Denner-Esteves/painel-approve/internal/domain/model"

type CreateFolderRequest struct {
	Year  int  `json:"year"`
	Month *int `json:"month,omitempty"`
}

type YearsResponse struct {
	Years []int `json:"years"`
}

type MonthsResponse struct {
	Months []int `json:"months"`
}

type CalendarResponse struct {
	Year  int                  `json:"year"`
	Month int                  `json:"month"`
	Days  map[int][]model.Task `json:"days"`
}
