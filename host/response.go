package host

import "github.com/carlospion/AvocadoLegal/widget"

//ConfigResponse is the read-only configuration snapshot. The API key is
//deliberately not echoed back.
type ConfigResponse struct {
	APIBaseURL     string          `json:"api_base_url"`
	Position       widget.Position `json:"position"`
	Theme          string          `json:"theme,omitempty"`
	Locale         string          `json:"locale,omitempty"`
	Keywords       []string        `json:"keywords"`
	PollIntervalMS int64           `json:"poll_interval_ms"`
	RetryDelayMS   int64           `json:"retry_delay_ms"`
	DiscardOnClose bool            `json:"discard_on_close"`
}

//DestroyResponse acknowledges a widget teardown
type DestroyResponse struct {
	Destroyed bool `json:"destroyed"`
}
