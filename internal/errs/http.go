package errs

import (
	"errors"
	"net/http"
	"strings"
)

// FieldError represents a field-level validation error.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType describes what the client should do next.
type ActionType string

const (
	// ActionTypeRedirect sends the browser to Action.Value.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional "what to do next" instruction attached to an error.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the application error type understood by the global error handler.
//
// Override marks messages that are safe to show verbatim; otherwise the
// generic status text is displayed.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError, regardless of its fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// WithRedirect returns a copy of e that redirects to location.
func (e *HTTPError) WithRedirect(location string) *HTTPError {
	cp := e.WithMessage(e.Message)
	cp.Action = &Action{
		Type:    ActionTypeRedirect,
		Message: e.Message,
		Value:   location,
	}
	return cp
}

// DisplayMessage is the text safe to put on the error page.
func (e *HTTPError) DisplayMessage() string {
	if e.Override || e.Status < http.StatusInternalServerError {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// StatusOf extracts the HTTP status of err, defaulting to 500.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
