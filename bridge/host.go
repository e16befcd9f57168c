package bridge

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/carlospion/AvocadoLegal/api"
)

// Host is the host-page side of the cross-context bridge. The embedded
// sub-document connects to it over a websocket; inbound frames are
// validated and dispatched, outbound open/close/toggle commands mirror
// the widget's programmatic control surface.
//
// A Host only talks to the origin resolved from the configured embed
// URL. If that URL cannot be parsed into a valid origin the bridge
// refuses to initialize rather than exchange messages with an unverified
// peer.
type Host struct {
	origin   string
	upgrader websocket.Upgrader

	//OnResize receives clamped container dimensions from the
	//sub-document. May be nil.
	OnResize func(width, height int)

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

// NewHost creates a bridge host for the embed page at embedURL
func NewHost(embedURL string) (*Host, error) {
	u, err := url.Parse(embedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &api.Error{Type: api.ErrorTypeConfig,
			Description: "cannot resolve embed origin from " + embedURL, Err: err}
	}

	h := &Host{
		origin: u.Scheme + "://" + u.Host,
		conns:  map[string]*websocket.Conn{},
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h, nil
}

// Origin returns the resolved embed origin
func (h *Host) Origin() string {
	return h.origin
}

// ConnCount returns the number of connected sub-documents
func (h *Host) ConnCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// checkOrigin admits the embed origin and non-browser clients (which
// send no Origin header); everything else is refused.
func (h *Host) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == h.origin
}

// ServeHTTP upgrades the sub-document's connection and runs its read
// loop until the peer goes away
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("bridge: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.conns, id)
		h.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("bridge: connection %s closed unexpectedly: %v", id, err)
			}
			return
		}
		h.dispatch(id, data)
	}
}

// dispatch validates one inbound frame and applies it. Malformed or
// foreign frames are dropped, never thrown: no failure here may escape
// into the host's execution context.
func (h *Host) dispatch(id string, data []byte) {
	msg, err := Decode(data)
	if err != nil {
		if !errors.Is(err, ErrForeign) {
			log.Printf("bridge: dropping frame from %s: %v", id, err)
		}
		return
	}

	switch msg.Type {
	case TypeResize:
		width, height := msg.Dimensions()
		if h.OnResize != nil {
			h.OnResize(width, height)
		}
	case TypeReady:
		log.Printf("bridge: embed %s ready", id)
	case TypeError:
		// surfaced to host-side logging only, never to the end user
		log.Printf("bridge: embed %s reported error: %s", id, msg.Message)
	default:
		// control commands only flow host -> sub-document
		log.Printf("bridge: dropping unexpected %s from %s", msg.Type, id)
	}
}

// send writes a control message to every connected sub-document
func (h *Host) send(msg *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("bridge: write to %s failed: %v", id, err)
			conn.Close()
			delete(h.conns, id)
		}
	}
}

// Open tells the sub-document to show the chat panel
func (h *Host) Open() {
	h.send(&Message{Type: TypeOpen})
}

// Close tells the sub-document to hide the chat panel
func (h *Host) Close() {
	h.send(&Message{Type: TypeClose})
}

// Toggle tells the sub-document to flip panel visibility
func (h *Host) Toggle() {
	h.send(&Message{Type: TypeToggle})
}

// Shutdown closes every bridge connection
func (h *Host) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		conn.Close()
		delete(h.conns, id)
	}
}
