package model

// View states a visitor session can be in.
const (
	StateLanding = "landing"
	StateChat    = "chat"
	StateLogin   = "login"
	StateConsole = "console"
)

// Session is the per-visitor view state kept in Redis. TermsAccepted is the
// one-time terms gate in front of the chat view; AdminEmail is set while the
// session sits on the admin console.
type Session struct {
	ID            string `json:"id"`
	State         string `json:"state"`
	TermsAccepted bool   `json:"termsAccepted"`
	AdminEmail    string `json:"adminEmail,omitempty"`
}
