package host_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carlospion/AvocadoLegal/api"
	"github.com/carlospion/AvocadoLegal/bridge"
	"github.com/carlospion/AvocadoLegal/host"
	"github.com/carlospion/AvocadoLegal/widget"
)

// stubAPI answers every conversation API call successfully
type stubAPI struct{}

func (stubAPI) CreateConversation(ctx context.Context, subject string, data *api.ClientData) (*api.Conversation, error) {
	return &api.Conversation{ID: "c1", CreatedAt: time.Now()}, nil
}

func (stubAPI) ListMessages(ctx context.Context, conversationID string) ([]api.Message, error) {
	return []api.Message{}, nil
}

func (stubAPI) SendMessage(ctx context.Context, conversationID, content, senderName string) (*api.Message, error) {
	return &api.Message{ID: "1", Content: content, SenderType: api.SenderTypePlatformUser, SentAt: time.Now()}, nil
}

func (stubAPI) CloseConversation(ctx context.Context, conversationID, notes string) error {
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cache := &host.StateCache{}
	session, err := widget.New(widget.Config{
		APIKey:       "test-api-key",
		APIBaseURL:   "https://api.example.com/api/v1",
		PollInterval: 10 * time.Millisecond,
	}, stubAPI{}, cache.Renderer())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	t.Cleanup(session.Destroy)

	b, err := bridge.NewHost("https://api.example.com/widget/embed/")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	server := httptest.NewServer(host.NewRouter(io.Discard, session, b, cache))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("could not marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := http.Post(url, "application/json", reader)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	return resp, decoded
}

func TestScanEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/widget/scan",
		map[string]string{"page_text": "Su préstamo está en mora desde el 10/05."})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["detected"] != true || body["keyword"] != "mora" {
		t.Fatalf("expected mora detection, got %v", body)
	}

	_, state := getJSON(t, server.URL+"/widget/state")
	if state["state"] != "alert_shown" {
		t.Fatalf("expected alert_shown, got %v", state["state"])
	}
}

func TestOpenCloseToggle(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/widget/open", nil)
	if resp.StatusCode != http.StatusOK || body["state"] != "open" {
		t.Fatalf("expected open, got %d %v", resp.StatusCode, body)
	}

	_, body = postJSON(t, server.URL+"/widget/close", nil)
	if body["state"] != "closed" {
		t.Fatalf("expected closed, got %v", body["state"])
	}

	_, body = postJSON(t, server.URL+"/widget/toggle", nil)
	if body["state"] != "open" {
		t.Fatalf("expected open after toggle, got %v", body["state"])
	}
}

func TestSendWithoutConversation(t *testing.T) {
	server := newTestServer(t)

	resp, _ := postJSON(t, server.URL+"/widget/send", map[string]string{"content": "hola"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestSendEmptyContent(t *testing.T) {
	server := newTestServer(t)

	resp, _ := postJSON(t, server.URL+"/widget/send", map[string]string{"content": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSendMessage(t *testing.T) {
	server := newTestServer(t)

	postJSON(t, server.URL+"/widget/open", nil)

	// wait for the async conversation creation
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, state := getJSON(t, server.URL+"/widget/state")
		if state["conversation_id"] == "c1" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("conversation never created")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, _ := postJSON(t, server.URL+"/widget/send", map[string]string{"content": "Necesito ayuda"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestCloseCaseWithoutConversation(t *testing.T) {
	server := newTestServer(t)

	resp, _ := postJSON(t, server.URL+"/widget/close-case", map[string]string{"notes": ""})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCloseCase(t *testing.T) {
	server := newTestServer(t)

	postJSON(t, server.URL+"/widget/open", nil)
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, state := getJSON(t, server.URL+"/widget/state")
		if state["conversation_id"] == "c1" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("conversation never created")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, body := postJSON(t, server.URL+"/widget/close-case",
		map[string]string{"notes": "consulta resuelta"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["state"] != "closed" || body["conversation_id"] != nil {
		t.Fatalf("expected closed state without conversation, got %v", body)
	}
}

func TestConfigRedactsAPIKey(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/widget/config")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["position"] != "right" {
		t.Errorf("expected position right, got %v", body["position"])
	}
	for key := range body {
		if key == "api_key" {
			t.Error("API key must not be echoed back")
		}
	}
}

func TestDestroyEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/widget/destroy", nil)
	if resp.StatusCode != http.StatusOK || body["destroyed"] != true {
		t.Fatalf("expected destroy ack, got %d %v", resp.StatusCode, body)
	}

	// the control surface stays up but the session is gone
	_, state := postJSON(t, server.URL+"/widget/open", nil)
	if state["state"] != "closed" {
		t.Fatalf("expected destroyed widget to stay closed, got %v", state["state"])
	}
}

func TestWrongContentType(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/widget/scan", "text/plain", bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/widget/unknown")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
