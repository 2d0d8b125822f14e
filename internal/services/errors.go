package services

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/skillswap/internal/shared"
	"github.com/tidwall/gjson"
)

// RequestFailed is returned when the backend answers with a non-2xx status.
type RequestFailed struct {
	Op      string // Operation name, e.g. "create post"
	Status  int    // HTTP status code
	Message string // Body "message" field, or the status text
}

func (e *RequestFailed) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.Status, e.Message)
}

// Unwrap lets callers match with errors.Is(err, shared.ErrAPIRequest).
func (e *RequestFailed) Unwrap() error {
	return shared.ErrAPIRequest
}

func newRequestFailed(op string, resp *http.Response, body []byte) *RequestFailed {
	return &RequestFailed{Op: op, Status: resp.StatusCode, Message: failureMessage(resp, body)}
}

// failureMessage extracts a string "message" field from a JSON body, falling back to the status text.
func failureMessage(resp *http.Response, body []byte) string {
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "message"); m.Type == gjson.String && m.Str != "" {
			return m.Str
		}
	}
	return statusText(resp)
}

// statusText returns the reason phrase the server sent, or the standard one for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
