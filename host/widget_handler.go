package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/carlospion/AvocadoLegal/bridge"
	"github.com/carlospion/AvocadoLegal/widget"
)

//handleScanPage runs keyword detection over submitted page text
func handleScanPage(session *widget.Session) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		req := &ScanRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return handleError(http.StatusBadRequest, fmt.Errorf("Could not decode request: %v", err))
		}

		result := session.ScanPage(req.PageText)
		return &handlerResponse{Code: http.StatusOK, Body: result}
	}
}

//handleOpen opens the widget and mirrors the transition to the
//sub-document
func handleOpen(session *widget.Session, b *bridge.Host, cache *StateCache) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		session.Open()
		b.Open()
		return &handlerResponse{Code: http.StatusOK, Body: cache.Latest()}
	}
}

//handleClose closes the widget and mirrors the transition to the
//sub-document
func handleClose(session *widget.Session, b *bridge.Host, cache *StateCache) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		session.Close()
		b.Close()
		return &handlerResponse{Code: http.StatusOK, Body: cache.Latest()}
	}
}

//handleToggle flips widget visibility and mirrors the transition to the
//sub-document
func handleToggle(session *widget.Session, b *bridge.Host, cache *StateCache) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		session.Toggle()
		b.Toggle()
		return &handlerResponse{Code: http.StatusOK, Body: cache.Latest()}
	}
}

//handleAcceptAlert engages the alert balloon
func handleAcceptAlert(session *widget.Session, b *bridge.Host, cache *StateCache) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		session.AcceptAlert()
		b.Open()
		return &handlerResponse{Code: http.StatusOK, Body: cache.Latest()}
	}
}

//handleDismissAlert hides the alert balloon without engaging
func handleDismissAlert(session *widget.Session, cache *StateCache) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		session.DismissAlert()
		return &handlerResponse{Code: http.StatusOK, Body: cache.Latest()}
	}
}

//handleSend posts a visitor message to the active conversation
func handleSend(session *widget.Session, cache *StateCache) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		req := &SendRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return handleError(http.StatusBadRequest, fmt.Errorf("Could not decode request: %v", err))
		}
		if req.Content == "" {
			return handleError(http.StatusBadRequest, errors.New("Content must not be empty"))
		}

		if err := session.SendMessage(req.Content); err != nil {
			if errors.Is(err, widget.ErrNoConversation) || errors.Is(err, widget.ErrDestroyed) {
				return handleError(http.StatusConflict, err)
			}
			return checkAPIError(err)
		}
		return &handlerResponse{Code: http.StatusCreated, Body: cache.Latest()}
	}
}

//handleCloseCase resolves the active conversation on the server and
//closes the widget
func handleCloseCase(session *widget.Session, b *bridge.Host, cache *StateCache) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		req := &CloseCaseRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return handleError(http.StatusBadRequest, fmt.Errorf("Could not decode request: %v", err))
		}

		if err := session.CloseCase(req.Notes); err != nil {
			if errors.Is(err, widget.ErrNoConversation) || errors.Is(err, widget.ErrDestroyed) {
				return handleError(http.StatusConflict, err)
			}
			return checkAPIError(err)
		}
		b.Close()
		return &handlerResponse{Code: http.StatusOK, Body: cache.Latest()}
	}
}

//handleReadState returns the latest emitted render state
func handleReadState(cache *StateCache) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		return &handlerResponse{Code: http.StatusOK, Body: cache.Latest()}
	}
}

//handleReadConfig returns the read-only configuration snapshot
func handleReadConfig(session *widget.Session) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		cfg := session.Config()
		return &handlerResponse{Code: http.StatusOK, Body: &ConfigResponse{
			APIBaseURL:     cfg.APIBaseURL,
			Position:       cfg.Position,
			Theme:          cfg.Theme,
			Locale:         cfg.Locale,
			Keywords:       cfg.Keywords,
			PollIntervalMS: cfg.PollInterval.Milliseconds(),
			RetryDelayMS:   cfg.RetryDelay.Milliseconds(),
			DiscardOnClose: cfg.DiscardOnClose,
		}}
	}
}

//handleDestroy irreversibly tears down the widget session and drops all
//bridge connections
func handleDestroy(session *widget.Session, b *bridge.Host) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		session.Destroy()
		b.Close()
		b.Shutdown()
		return &handlerResponse{Code: http.StatusOK, Body: &DestroyResponse{Destroyed: true}}
	}
}
