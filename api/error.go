package api

import (
	"errors"
	"fmt"
)

//ErrorType classifies Errors by how callers should react to them
type ErrorType int

//ErrorTypes
const (
	//ErrorTypeConfig is fatal: the widget must not mount
	ErrorTypeConfig ErrorType = iota
	//ErrorTypeNetwork is a transport failure; transient
	ErrorTypeNetwork
	//ErrorTypeServer is a non-2xx response from the conversation API; transient
	ErrorTypeServer
)

//Error wraps errors in the widget engine
type Error struct {
	Description string
	Type        ErrorType
	//Status is the HTTP status code for ErrorTypeServer
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Type {
	case ErrorTypeConfig:
		return fmt.Sprintf("Configuration Error: %s: %v", e.Description, e.Err)
	case ErrorTypeServer:
		return fmt.Sprintf("Server Error (status %d): %s: %v", e.Status, e.Description, e.Err)
	}
	return fmt.Sprintf("Network Error: %s: %v", e.Description, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

//IsConfigError returns whether err is an Error with ErrorTypeConfig
func IsConfigError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrorTypeConfig
}

//IsServerError returns whether err is an Error with ErrorTypeServer,
//along with its HTTP status code
func IsServerError(err error) (status int, ok bool) {
	var e *Error
	if errors.As(err, &e) && e.Type == ErrorTypeServer {
		return e.Status, true
	}
	return 0, false
}
