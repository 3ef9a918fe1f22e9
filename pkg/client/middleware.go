package client

import (
	"net/http"
	"strings"
)

// RequestDecorator mutates an outgoing request before it is sent.
// Returning an error aborts the request.
type RequestDecorator func(*http.Request) error

// ResponseHandler inspects a response before its status is checked.
// Returning an error fails the request with that error.
type ResponseHandler func(*http.Response) error

// BearerToken attaches "Authorization: Bearer <token>" when token() is non-empty.
func BearerToken(token func() string) RequestDecorator {
	return func(req *http.Request) error {
		if t := strings.TrimSpace(token()); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
		return nil
	}
}

// OnUnauthorized calls fn whenever the API answers 401. The request still
// fails with the usual *HTTPError.
func OnUnauthorized(fn func()) ResponseHandler {
	return func(resp *http.Response) error {
		if resp.StatusCode == http.StatusUnauthorized {
			fn()
		}
		return nil
	}
}
