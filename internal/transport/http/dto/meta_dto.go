package dto

import "time"

type MetaLoginResponse struct {
	URL string `json:"url"`
}

type MetaConnectResponse struct {
	OK           bool      `json:"ok"`
	PageID       string    `json:"page_id,omitempty"`
	IGBusinessID string    `json:"ig_business_id,omitempty"`
	TokenExpiry  time.Time `json:"token_expiry"`
}

type MetaDisconnectRequest struct {
	ClientID int64 `json:"client_id"`
}
