package dto

import "github.com/Denner-Esteves/painel-approve/internal/domain/model"

type ClientResponse struct {
	Client model.Client `json:"client"`
}

type ClientListResponse struct {
	Clients []model.Client `json:"clients"`
}
