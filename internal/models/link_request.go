package models

// CreateLinkRequest represents the request body for creating a short URL
type CreateLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
}
