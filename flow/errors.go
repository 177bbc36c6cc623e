package flow

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RequestError reports a response whose status was outside the 2xx range.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func newRequestError(resp *resty.Response) *RequestError {
	return &RequestError{
		Method:     resp.Request.Method,
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.String(),
	}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("unexpected code from %s %s: %s, body: %s", e.Method, e.URL, e.Status, e.Body)
}
