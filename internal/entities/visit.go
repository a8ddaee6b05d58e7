package entities

import "time"

// Visit is one hit on the application landing page.
type Visit struct {
	Time      time.Time `json:"time"`
	UserAgent string    `json:"user_agent"`
	Source    string    `json:"source"`
}
