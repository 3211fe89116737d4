package resolver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/scholartools/shrew/internal/engine"
)

// APIError is a structured error from the resolution service.
type APIError struct {
	StatusCode int
	Code       string // e.g. "unsupported_publisher", "parse_failure"
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("resolver API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the service's error codes onto the engine's closed
// taxonomy so callers can branch with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "unsupported_publisher":
		return engine.ErrUnsupportedPublisher
	case "parse_failure", "scrape_failure":
		return engine.ErrParseFailure
	case "not_found":
		return engine.ErrEmptyResult
	}
	if e.StatusCode >= 500 {
		return engine.ErrTransport
	}
	return nil
}

// errorBody is the error envelope the service wraps failures in.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// checkResponse converts a non-2xx response into an APIError.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error.Code != "" {
			apiErr.Code = eb.Error.Code
			apiErr.Message = eb.Error.Message
		}
	}
	return apiErr
}
