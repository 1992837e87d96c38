package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySessionID is returned by PlanningStatus when no session id is given.
var ErrEmptySessionID = errors.New("transport: session id is required")

// NetworkError is a transport-level failure: the request never produced an
// HTTP response (connection refused, DNS, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError is a non-2xx response. Body holds the raw response body so
// it can be shown to the user verbatim.
type BackendError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	detail := e.Detail()
	if detail == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, detail)
}

// Detail returns the body, re-indented when it parses as JSON.
func (e *BackendError) Detail() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return ""
	}
	var buf bytes.Buffer
	if json.Valid([]byte(body)) && json.Indent(&buf, []byte(body), "", "  ") == nil {
		return buf.String()
	}
	return body
}

// Describe renders err for display in the transcript. Backend errors show
// the status and body; network errors show the underlying cause.
func Describe(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		if d := be.Detail(); d != "" {
			return fmt.Sprintf("%d %s", be.StatusCode, d)
		}
		return fmt.Sprintf("status %d", be.StatusCode)
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "could not reach the server: " + ne.Err.Error()
	}
	return err.Error()
}
