// Package errors provides structured handling of upstream HTTP error
// responses from the external APIs the service talks to.
package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MinErrorStatusCode is the lowest status code treated as an error.
const MinErrorStatusCode = 400

// HTTPError is a non-2xx response from an upstream API.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// ParseHTTPError reads an error response body and extracts a message from
// the common shapes upstream APIs use: {"error": "..."} (Firecrawl),
// {"error": {"message": "..."}} (xAI, OpenRouter) and {"message": "..."}.
// Returns nil for non-error status codes.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < MinErrorStatusCode {
		return nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("read error response body: %v", err),
		}
	}
	bodyStr := string(bodyBytes)

	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       bodyStr,
		Message:    extractMessage(bodyBytes),
	}
	if httpErr.Message == "" {
		httpErr.Message = bodyStr
	}
	return httpErr
}

func extractMessage(body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return ""
	}

	if len(envelope.Error) > 0 {
		var s string
		if json.Unmarshal(envelope.Error, &s) == nil && s != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	return envelope.Message
}
