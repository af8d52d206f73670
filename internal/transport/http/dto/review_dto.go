package dto

import "github.com/Denner-Esteves/painel-approve/internal/domain/model"

type DecisionRequest struct {
	Decision string `json:"decision"`
	Feedback string `json:"feedback,omitempty"`
}

type DecisionResponse struct {
	OK         bool       `json:"ok"`
	TaskStatus string     `json:"task_status"`
	Task       model.Task `json:"task"`
}
