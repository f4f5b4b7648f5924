package model

import "time"

// Speakers of a conversation turn.
const (
	SpeakerUser = "user"
	SpeakerBot  = "bot"
)

// ChatTurn is one entry of a visitor's conversation transcript. Bot turns may
// carry HTML in Text (linkified URLs); SpeechText is the same content with
// markup stripped, for browser text-to-speech.
type ChatTurn struct {
	Speaker    string    `json:"speaker"`
	Text       string    `json:"text"`
	SpeechText string    `json:"speechText,omitempty"`
	MediaURL   string    `json:"mediaUrl,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
