package dto

type AccessRequest struct {
	Password     string `json:"password"`
	ReviewerName string `json:"reviewer_name"`
}

type AccessResponse struct {
	OK bool `json:"ok"`
}
