package activity

// ListActivityRequest asks for the most recent entries.
type ListActivityRequest struct {
	Limit int `json:"limit"`
}

// ListActivityResponse carries entries, newest first.
type ListActivityResponse struct {
	Entries []Entry `json:"entries"`
}
