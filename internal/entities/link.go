package entities

import "time"

// AnonymousCreator owns every link shortened without an account.
const AnonymousCreator = "anonymous"

// ClickEvent is one resolution of a short link.
type ClickEvent struct {
	Time      time.Time `json:"time"`
	UserAgent string    `json:"user_agent"`
	Source    string    `json:"source"`
}

// Link represents a shortened URL entity in the database
type Link struct {
	ID          string       `json:"_id"`
	ShortID     string       `json:"shortId"`
	Alias       string       `json:"alias"`
	OriginalURL string       `json:"originalUrl"`
	ShortURL    string       `json:"shortUrl"`
	Creator     string       `json:"creator"`
	Clicks      int64        `json:"clicks"`
	ClickedAt   []ClickEvent `json:"clickedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
}
