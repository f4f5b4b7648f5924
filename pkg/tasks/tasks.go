// Package tasks defines the messages exchanged over the feedback event topic.
package tasks

// FeedbackSubmittedTask is produced when a visitor submits feedback and
// consumed by the notifier, which mails the institutional inbox.
type FeedbackSubmittedTask struct {
	FeedbackID string `json:"feedbackId"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}
