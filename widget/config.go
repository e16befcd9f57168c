package widget

import (
	"errors"
	"net/url"
	"time"

	"github.com/carlospion/AvocadoLegal/api"
)

// Position is the screen corner the widget anchors to
type Position string

// Positions
const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// Defaults
const (
	DefaultPollInterval = 5 * time.Second
	DefaultRetryDelay   = 3 * time.Second
)

// Config holds the widget initialization attributes. It is read once
// when the session is created and immutable afterwards.
type Config struct {
	//APIKey is the platform API key. Required: a missing key is a fatal
	//configuration error and the widget must not mount.
	APIKey string

	//APIBaseURL is the conversation API root, e.g.
	//"https://api.avocadolegal.com/api/v1"
	APIBaseURL string

	//Position is "left" or "right"; defaults to right
	Position Position

	Theme  string
	Locale string

	//Keywords are the detection trigger terms; defaults to
	//detect.DefaultKeywords
	Keywords []string

	//PollInterval is the fixed message refresh cadence while a
	//conversation is active; defaults to DefaultPollInterval
	PollInterval time.Duration

	//RetryDelay is the fixed delay between conversation creation
	//attempts; defaults to DefaultRetryDelay
	RetryDelay time.Duration

	//DiscardOnClose drops the conversation id when the widget closes,
	//so the next open starts a fresh conversation. The default (false)
	//reuses the same conversation for the whole page lifetime.
	DiscardOnClose bool
}

// normalize applies defaults and returns a configuration error for
// anything that must abort the mount.
func (c *Config) normalize() error {
	if c.APIKey == "" {
		return &api.Error{Type: api.ErrorTypeConfig, Description: "missing API key",
			Err: errors.New("APIKey must not be empty")}
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &api.Error{Type: api.ErrorTypeConfig,
			Description: "invalid API base URL " + c.APIBaseURL, Err: err}
	}

	switch c.Position {
	case "":
		c.Position = PositionRight
	case PositionLeft, PositionRight:
	default:
		return &api.Error{Type: api.ErrorTypeConfig,
			Description: "invalid position " + string(c.Position),
			Err:         errors.New("position must be left or right")}
	}

	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}

	return nil
}
