package models

// Envelope wraps every JSON response.
type Envelope struct {
	Success    bool           `json:"success"`
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Data       any            `json:"data,omitempty"`
	RateLimit  *RateLimitInfo `json:"rateLimit,omitempty"`
}

// RateLimitInfo describes the limit a rejected request ran into. Durations are in seconds.
type RateLimitInfo struct {
	Window      int `json:"window"`
	MaxRequests int `json:"maxRequests"`
	RetryAfter  int `json:"retryAfter"`
}

// Success builds the envelope of a successful response
func Success(statusCode int, message string, data any) Envelope {
	return Envelope{Success: true, StatusCode: statusCode, Message: message, Data: data}
}

// Failure builds the envelope of an error response
func Failure(statusCode int, message string) Envelope {
	return Envelope{Success: false, StatusCode: statusCode, Message: message}
}

// TooManyRequests builds the 429 envelope carrying the limit details
func TooManyRequests(statusCode int, message string, info RateLimitInfo) Envelope {
	env := Failure(statusCode, message)
	env.RateLimit = &info
	return env
}
