package host

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carlospion/AvocadoLegal/bridge"
	"github.com/carlospion/AvocadoLegal/widget"
)

//NewRouter returns the HTTP control surface for a widget session
func NewRouter(w io.Writer, session *widget.Session, b *bridge.Host, cache *StateCache) http.Handler {

	//construct middleware
	var m = func(h returnHandler) http.Handler {
		return logMiddleware(jsonMiddleware(h), w)
	}

	r := mux.NewRouter()

	r.Path("/widget/scan").Methods("POST").Handler(m(handleScanPage(session)))

	r.Path("/widget/open").Methods("POST").Handler(m(handleOpen(session, b, cache)))
	r.Path("/widget/close").Methods("POST").Handler(m(handleClose(session, b, cache)))
	r.Path("/widget/toggle").Methods("POST").Handler(m(handleToggle(session, b, cache)))
	r.Path("/widget/alert/accept").Methods("POST").Handler(m(handleAcceptAlert(session, b, cache)))
	r.Path("/widget/alert/dismiss").Methods("POST").Handler(m(handleDismissAlert(session, cache)))

	r.Path("/widget/send").Methods("POST").Handler(m(handleSend(session, cache)))
	r.Path("/widget/close-case").Methods("POST").Handler(m(handleCloseCase(session, b, cache)))
	r.Path("/widget/state").Methods("GET").Handler(m(handleReadState(cache)))
	r.Path("/widget/config").Methods("GET").Handler(m(handleReadConfig(session)))
	r.Path("/widget/destroy").Methods("POST").Handler(m(handleDestroy(session, b)))

	// bridge websocket endpoint (no JSON middleware)
	r.Path("/widget/bridge").Handler(b)

	r.NotFoundHandler = m(notFoundHandler)

	return r
}
