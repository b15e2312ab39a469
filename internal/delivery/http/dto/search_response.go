package dto

type JobItem struct {
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Type       string `json:"type"`
	Link       string `json:"link"`
	MatchScore *int   `json:"matchScore,omitempty"`
	Reasoning  string `json:"reasoning,omitempty"`
}

type QueryEcho struct {
	Profession     string `json:"profession"`
	Specialization string `json:"specialization"`
	Location       string `json:"location"`
}

type SearchResponse struct {
	Jobs      []JobItem `json:"jobs"`
	Citations []string  `json:"citations"`
	Count     int       `json:"count"`
	Query     QueryEcho `json:"query"`
	Warning   string    `json:"warning,omitempty"`
	RequestID string    `json:"requestId"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
}
