package domain

// PullStatus tracks a background model download.
type PullStatus struct {
	Model     string `json:"model"`
	Status    string `json:"status"`
	Completed int64  `json:"completed"`
	Total     int64  `json:"total"`
	Done      bool   `json:"done"`
	Err       string `json:"error,omitempty"`
}
