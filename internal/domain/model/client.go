package model

import "time"

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	MetaPageID       string     `json:"meta_page_id,omitempty"`
	MetaIGBusinessID string     `json:"meta_ig_business_id,omitempty"`
	MetaTokenExpiry  *time.Time `json:"meta_token_expiry,omitempty"`
}
