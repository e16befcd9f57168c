package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carlospion/AvocadoLegal/api"
)

// createRequest is the request body for creating a conversation
type createRequest struct {
	Subject    string          `json:"subject,omitempty"`
	ClientData *api.ClientData `json:"client_data,omitempty"`
}

// sendMessageRequest is the request body for sending a message
type sendMessageRequest struct {
	Content    string         `json:"content"`
	SenderType api.SenderType `json:"sender_type"`
	SenderName string         `json:"sender_name,omitempty"`
}

// closeRequest is the request body for closing a conversation
type closeRequest struct {
	Notes string `json:"notes,omitempty"`
}

// Client is a client for the conversation API. Every request carries the
// platform API key; key validation happens at widget initialization, not
// here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new conversation API client. baseURL is the API
// root, e.g. "https://api.avocadolegal.com/api/v1".
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do executes a request and decodes the JSON response into out (if out
// is non-nil), mapping failures onto the api.Error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &api.Error{Type: api.ErrorTypeNetwork, Description: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &api.Error{
			Type:        api.ErrorTypeServer,
			Status:      resp.StatusCode,
			Description: method + " " + path,
			Err:         fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &api.Error{Type: api.ErrorTypeServer, Status: resp.StatusCode,
			Description: "failed to decode " + method + " " + path + " response", Err: err}
	}
	return nil
}

// CreateConversation creates a new conversation with the given subject
// and scraped client data. The caller owns retry policy: this method
// fails fast with a network or server Error.
func (c *Client) CreateConversation(ctx context.Context, subject string, data *api.ClientData) (*api.Conversation, error) {
	req := &createRequest{Subject: subject}
	if !data.Empty() {
		req.ClientData = data
	}

	conv := &api.Conversation{}
	if err := c.do(ctx, "POST", "/conversations/", req, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// ListMessages returns the full message list for a conversation, in the
// order the server serves it. Callers treat a failure as a skipped
// refresh cycle; the next poll tick is the retry.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]api.Message, error) {
	var msgs []api.Message
	if err := c.do(ctx, "GET", "/conversations/"+conversationID+"/messages/", nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage posts a visitor message to the conversation. Delivery is
// at most once from the client's perspective: a failure surfaces to the
// user and the message is never queued for automatic resend.
func (c *Client) SendMessage(ctx context.Context, conversationID, content, senderName string) (*api.Message, error) {
	req := &sendMessageRequest{
		Content:    content,
		SenderType: api.SenderTypePlatformUser,
		SenderName: senderName,
	}

	msg := &api.Message{}
	if err := c.do(ctx, "POST", "/conversations/"+conversationID+"/send_message/", req, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// CloseConversation closes the case on the server with optional
// resolution notes.
func (c *Client) CloseConversation(ctx context.Context, conversationID, notes string) error {
	return c.do(ctx, "POST", "/conversations/"+conversationID+"/close/", &closeRequest{Notes: notes}, nil)
}
