package host

import (
	"errors"
	"net/http"

	"github.com/carlospion/AvocadoLegal/api"
)

//ErrorResponse represents an HTTP error
type ErrorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

//handleError returns a handlerResponse for the given code
func handleError(code int, err error) *handlerResponse {
	return &handlerResponse{Code: code, Body: &ErrorResponse{Code: code, Error: http.StatusText(code)}, Err: err}
}

//notFoundHandler returns a 404 handlerResponse
func notFoundHandler(w http.ResponseWriter, r *http.Request) *handlerResponse {
	return handleError(http.StatusNotFound, errors.New("Could not find handler"))
}

//checkAPIError maps conversation API failures onto HTTP responses:
//transient upstream failures become 502, anything else is a 500
func checkAPIError(err error) *handlerResponse {
	if err == nil {
		return nil
	}

	var e *api.Error
	if errors.As(err, &e) && (e.Type == api.ErrorTypeNetwork || e.Type == api.ErrorTypeServer) {
		return handleError(http.StatusBadGateway, err)
	}
	return handleError(http.StatusInternalServerError, err)
}
