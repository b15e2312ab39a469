package job

// Record is one candidate job posting returned by the model for a single
// request. Records are never persisted; they live only for the duration of
// the request that produced them.
type Record struct {
	Title      string
	Company    string
	Location   string
	Type       string
	Link       string
	Reasoning  string
	MatchScore *int
}

// Query is the search criteria of one request.
type Query struct {
	Profession     string
	Specialization string
	Location       string
	Companies      []string
}
