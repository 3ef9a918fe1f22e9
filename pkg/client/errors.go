package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 1 << 20

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	// RequestID echoes the X-Request-ID sent with the failed request.
	RequestID string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// newHTTPError reads the error body. The API reports failures as
// {"error": "..."} or {"message": "..."}; anything else is kept verbatim.
func newHTTPError(resp *http.Response, requestID string) *HTTPError {
	e := &HTTPError{StatusCode: resp.StatusCode, RequestID: requestID}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		e.Message = fmt.Sprintf("failed to read body: %v", err)
		return e
	}
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		switch {
		case apiErr.Error != "":
			e.Message = apiErr.Error
			return e
		case apiErr.Message != "":
			e.Message = apiErr.Message
			return e
		}
	}
	e.Message = strings.TrimSpace(string(body))
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// IsStatus reports whether err, or any error it wraps, is an HTTPError with code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
