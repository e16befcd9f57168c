package widget

import "github.com/carlospion/AvocadoLegal/api"

// State is the widget's visibility state
type State int

// States
const (
	//StateClosed shows only the launcher button
	StateClosed State = iota
	//StateAlertShown shows the alert balloon after a keyword match
	StateAlertShown
	//StateOpen shows the full chat panel
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateAlertShown:
		return "alert_shown"
	case StateOpen:
		return "open"
	}
	return "unknown"
}

// MarshalText makes State render as its name in JSON state snapshots
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RenderState is a declarative snapshot of everything the presentation
// layer needs. The state machine emits these; a single renderer consumes
// them, so transition logic stays testable without any UI.
type RenderState struct {
	State          State         `json:"state"`
	Keyword        string        `json:"keyword,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
	//CreatePending is true while a conversation is being created or a
	//creation retry is scheduled
	CreatePending bool          `json:"create_pending,omitempty"`
	Messages      []api.Message `json:"messages"`
	//Notice is a transient user-visible status line, e.g. a send failure
	Notice   string   `json:"notice,omitempty"`
	Position Position `json:"position"`
	Theme    string   `json:"theme,omitempty"`
}

// Renderer consumes render states in the order they were produced. It
// is invoked with the session's internal lock held, so it must not call
// back into the Session.
type Renderer func(RenderState)
