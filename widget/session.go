package widget

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carlospion/AvocadoLegal/api"
	"github.com/carlospion/AvocadoLegal/conversation"
	"github.com/carlospion/AvocadoLegal/detect"
)

// Session method errors
var (
	ErrDestroyed      = errors.New("widget session destroyed")
	ErrNoConversation = errors.New("no active conversation")
)

const defaultSenderName = "Visitante"

// Conversations is the subset of the conversation API a Session drives.
// *conversation.Client satisfies it.
type Conversations interface {
	CreateConversation(ctx context.Context, subject string, data *api.ClientData) (*api.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]api.Message, error)
	SendMessage(ctx context.Context, conversationID, content, senderName string) (*api.Message, error)
	CloseConversation(ctx context.Context, conversationID, notes string) error
}

// Session is one widget session: the lifetime from mount to Destroy,
// scoped to one page load. It owns the visibility state machine, the
// conversation lifecycle and the polling resource, and emits declarative
// RenderStates for a single renderer to consume.
//
// All methods are safe for concurrent use.
type Session struct {
	id       string
	config   Config
	client   Conversations
	detector *detect.Detector
	render   Renderer

	mu        sync.Mutex
	destroyed bool
	state     State
	keyword   string

	lastPageText string
	clientData   *api.ClientData
	extracted    bool

	// conversationID is written at most once per conversation: the first
	// successful creation wins. creating is the single-flight guard that
	// makes rapid open/toggle calls share one create attempt; createGen
	// invalidates attempts whose result must be dropped, e.g. after a
	// discarding close.
	conversationID string
	creating       bool
	createGen      int
	retryTimer     *time.Timer

	poller   *conversation.Poller
	messages []api.Message
	notice   string
}

// New validates cfg and returns a mounted Session in the closed state.
// A missing API key or unparsable base URL aborts the mount with a
// configuration error. render may be nil.
func New(cfg Config, client Conversations, render Renderer) (*Session, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if render == nil {
		render = func(RenderState) {}
	}

	return &Session{
		id:       uuid.NewString(),
		config:   cfg,
		client:   client,
		detector: detect.NewDetector(cfg.Keywords),
		render:   render,
		state:    StateClosed,
	}, nil
}

// ID returns the unique widget session id
func (s *Session) ID() string {
	return s.id
}

// Config returns a read-only snapshot of the session configuration
func (s *Session) Config() Config {
	cfg := s.config
	cfg.Keywords = append([]string(nil), s.config.Keywords...)
	return cfg
}

// State returns the current visibility state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConversationID returns the conversation id, or "" if none was created
// yet
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// ScanPage runs keyword detection over the host page's visible text.
// On a match while the widget is closed it transitions to the alert
// state and runs the client data extractor. Detection is deterministic
// and re-running it on unchanged text yields the same result.
func (s *Session) ScanPage(pageText string) detect.Result {
	result := s.detector.Detect(pageText)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return detect.Result{}
	}

	s.lastPageText = pageText
	if result.Detected && s.state == StateClosed {
		s.keyword = result.Keyword
		s.extractLocked()
		s.state = StateAlertShown
		s.renderLocked()
	}
	return result
}

// AcceptAlert engages the alert: the alert balloon is replaced by the
// open chat panel and a conversation is started
func (s *Session) AcceptAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed || s.state != StateAlertShown {
		return
	}
	s.openLocked()
}

// DismissAlert hides the alert balloon without sending anything
func (s *Session) DismissAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed || s.state != StateAlertShown {
		return
	}
	s.state = StateClosed
	s.renderLocked()
}

// Open opens the chat panel, creating a conversation if none exists yet
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed || s.state == StateOpen {
		return
	}
	s.openLocked()
}

// Close hides the chat panel. The polling scheduler is stopped and any
// scheduled creation retry cancelled before Close returns; the
// conversation id is retained for the page lifetime unless the session
// was configured with DiscardOnClose, which also drops the result of an
// in-flight creation attempt.
func (s *Session) Close() {
	s.mu.Lock()
	if s.destroyed || s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	poller := s.closeLocked()
	s.renderLocked()
	s.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}
}

// Toggle closes an open widget and opens it otherwise
func (s *Session) Toggle() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}

	if s.state != StateOpen {
		s.openLocked()
		s.mu.Unlock()
		return
	}

	poller := s.closeLocked()
	s.renderLocked()
	s.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}
}

// SendMessage posts a visitor message to the active conversation. On
// failure the message is not queued for resend: the error surfaces to
// the caller and as a transient notice, and the user must retry.
func (s *Session) SendMessage(content string) error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrDestroyed
	}
	if s.state != StateOpen || s.conversationID == "" {
		s.mu.Unlock()
		return ErrNoConversation
	}
	conversationID := s.conversationID
	senderName := defaultSenderName
	if s.clientData != nil && s.clientData.Name != "" {
		senderName = s.clientData.Name
	}
	s.mu.Unlock()

	msg, err := s.client.SendMessage(context.Background(), conversationID, content, senderName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return err
	}
	if err != nil {
		s.notice = "No se pudo enviar el mensaje. Inténtalo de nuevo."
		s.renderLocked()
		return err
	}

	// the next poll replaces the whole view; appending the ack just
	// shows the message without waiting for it
	s.messages = append(s.messages, *msg)
	s.notice = ""
	s.renderLocked()
	return nil
}

// CloseCase resolves the active conversation on the server with
// optional notes and closes the widget. The conversation is finished:
// a later open starts a new one regardless of DiscardOnClose.
func (s *Session) CloseCase(notes string) error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrDestroyed
	}
	if s.conversationID == "" {
		s.mu.Unlock()
		return ErrNoConversation
	}
	conversationID := s.conversationID
	s.mu.Unlock()

	err := s.client.CloseConversation(context.Background(), conversationID, notes)

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return err
	}
	if err != nil {
		s.notice = "No se pudo cerrar la consulta. Inténtalo de nuevo."
		s.renderLocked()
		s.mu.Unlock()
		return err
	}

	s.state = StateClosed
	s.conversationID = ""
	s.messages = nil
	s.notice = ""
	poller := s.poller
	s.poller = nil
	s.renderLocked()
	s.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}
	return nil
}

// Destroy irreversibly tears the session down: polling and any pending
// creation retry are cancelled and every later call is a no-op
func (s *Session) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	s.state = StateClosed
	poller := s.poller
	s.poller = nil
	timer := s.retryTimer
	s.retryTimer = nil
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if poller != nil {
		poller.Stop()
	}
}

// openLocked transitions to StateOpen and makes sure a conversation
// exists and is being polled
func (s *Session) openLocked() {
	s.state = StateOpen
	s.notice = ""
	s.extractLocked()

	if s.conversationID != "" {
		s.startPollingLocked()
	} else if !s.creating {
		s.creating = true
		s.createGen++
		go s.createConversation(s.createGen)
	}
	s.renderLocked()
}

// closeLocked transitions to StateClosed and detaches the poller, which
// the caller must Stop after releasing the lock. A scheduled creation
// retry never outlives the close. An attempt already in flight is left
// to finish: its result is kept for reopening, and the single-flight
// guard stays held so a reopen cannot start a second one. Under
// DiscardOnClose the attempt's generation is invalidated instead, so
// its result is dropped when it resolves.
func (s *Session) closeLocked() *conversation.Poller {
	s.state = StateClosed

	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
		s.createGen++
		s.creating = false
	}
	if s.config.DiscardOnClose {
		s.conversationID = ""
		s.messages = nil
		s.createGen++
		s.creating = false
	}

	poller := s.poller
	s.poller = nil
	return poller
}

// extractLocked runs the client data extractor at most once per session
func (s *Session) extractLocked() {
	if s.extracted {
		return
	}
	s.extracted = true
	s.clientData = detect.Extract(s.lastPageText)
}

func (s *Session) startPollingLocked() {
	if s.poller != nil {
		return
	}
	s.poller = conversation.NewPoller(s.client, s.conversationID, s.config.PollInterval, s.applySnapshot)
	s.poller.Start()
}

// applySnapshot replaces the local message view with a completed poll
// result
func (s *Session) applySnapshot(msgs []api.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed || s.state != StateOpen {
		return
	}
	s.messages = msgs
	s.renderLocked()
}

// createConversation runs off the session goroutine and retries on a
// fixed delay until it succeeds, the session is destroyed, or its
// generation is invalidated. While the widget stays open, losing the
// ability to start a conversation defeats its purpose, so the retry
// chain never gives up silently.
func (s *Session) createConversation(gen int) {
	s.mu.Lock()
	subject := "Consulta desde el widget"
	if s.keyword != "" {
		subject = "Consulta sobre préstamo irregular: " + s.keyword
	}
	data := s.clientData
	s.mu.Unlock()

	conv, err := s.client.CreateConversation(context.Background(), subject, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed || gen != s.createGen {
		return
	}

	if err != nil {
		if s.state != StateOpen {
			// the widget closed while the attempt was in flight; reopening
			// starts a fresh attempt instead of retrying in the background
			s.creating = false
			return
		}
		log.Printf("widget %s: conversation creation failed, retrying in %v: %v", s.id, s.config.RetryDelay, err)
		var timer *time.Timer
		timer = time.AfterFunc(s.config.RetryDelay, func() {
			s.mu.Lock()
			if s.retryTimer == timer {
				s.retryTimer = nil
			}
			retry := !s.destroyed && gen == s.createGen && s.conversationID == ""
			s.mu.Unlock()
			if retry {
				s.createConversation(gen)
			}
		})
		s.retryTimer = timer
		return
	}

	s.creating = false
	if s.conversationID == "" {
		s.conversationID = conv.ID
	}
	if s.state == StateOpen {
		s.startPollingLocked()
		s.renderLocked()
	}
}

func (s *Session) renderLocked() {
	s.render(RenderState{
		State:          s.state,
		Keyword:        s.keyword,
		ConversationID: s.conversationID,
		CreatePending:  s.creating,
		Messages:       append([]api.Message(nil), s.messages...),
		Notice:         s.notice,
		Position:       s.config.Position,
		Theme:          s.config.Theme,
	})
}
