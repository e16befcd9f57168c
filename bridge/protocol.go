package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Namespace prefixes every bridge message type so widget traffic can
// never be confused with unrelated cross-context messages.
const Namespace = "avocado-"

// Message types. resize, ready and error flow from the embedded
// sub-document to the host; open, close and toggle flow the other way.
const (
	TypeResize = Namespace + "resize"
	TypeReady  = Namespace + "ready"
	TypeError  = Namespace + "error"
	TypeOpen   = Namespace + "open"
	TypeClose  = Namespace + "close"
	TypeToggle = Namespace + "toggle"
)

// Minimum container dimensions. The collapsed launcher is 80x80, so a
// resize below that is clamped rather than honored.
const (
	MinWidth  = 80
	MinHeight = 80
)

// Decode failure modes. Both mean "drop the message": ErrForeign marks
// traffic that simply isn't ours, ErrMalformed marks namespaced traffic
// that is not a well-formed message and is worth logging.
var (
	ErrForeign   = errors.New("message outside bridge namespace")
	ErrMalformed = errors.New("malformed bridge message")
)

// Message is a bridge protocol message. Width and Height are pointers so
// a resize with missing or non-numeric dimensions fails validation
// instead of silently becoming zero.
type Message struct {
	Type    string   `json:"type"`
	Width   *float64 `json:"width,omitempty"`
	Height  *float64 `json:"height,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Dimensions returns the resize dimensions clamped to the sane minimums
func (m *Message) Dimensions() (width, height int) {
	width, height = int(*m.Width), int(*m.Height)
	if width < MinWidth {
		width = MinWidth
	}
	if height < MinHeight {
		height = MinHeight
	}
	return width, height
}

// Decode parses and validates a raw frame. Anything that is not a
// well-formed, namespaced bridge message is rejected; it never panics on
// arbitrary input.
func Decode(data []byte) (*Message, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !strings.HasPrefix(probe.Type, Namespace) {
		return nil, ErrForeign
	}

	msg := &Message{}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch msg.Type {
	case TypeResize:
		if msg.Width == nil || msg.Height == nil {
			return nil, fmt.Errorf("%w: resize without numeric dimensions", ErrMalformed)
		}
	case TypeReady, TypeError, TypeOpen, TypeClose, TypeToggle:
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, msg.Type)
	}

	return msg, nil
}
