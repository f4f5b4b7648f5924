package model

// Feedback is one visitor submission in the realtime store, keyed under
// feedback:{id}. Timestamp is epoch milliseconds at submit time; Resolved
// starts false and flips once an admin resolves or replies.
type Feedback struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Message   string `json:"feedback"`
	Timestamp int64  `json:"timestamp"`
	Resolved  bool   `json:"resolved"`
}
