package auth

import (
	"bytes"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
)

// MaxFollowUps bounds how many authenticated retries one request may cause.
const MaxFollowUps = 20

// Transport sends requests through Base and consults Authenticate whenever
// the response is a 401 challenge. When Jar is set, cookies from each
// challenge are saved to it and the retry carries the jar's cookies again.
type Transport struct {
	Base         http.RoundTripper
	Authenticate Authenticator
	Jar          http.CookieJar
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.base().RoundTrip(withBody(req, body))
	for followUps := 0; err == nil && resp.StatusCode == http.StatusUnauthorized; followUps++ {
		t.saveCookies(req, resp)
		if t.Authenticate == nil || followUps >= MaxFollowUps {
			return resp, nil
		}
		next := t.Authenticate(req, resp)
		if next == nil {
			return resp, nil
		}
		t.loadCookies(next)
		io.Copy(ioutil.Discard, resp.Body)
		resp.Body.Close()

		req = next
		resp, err = t.base().RoundTrip(withBody(req, body))
	}
	return resp, err
}

func (t *Transport) saveCookies(req *http.Request, resp *http.Response) {
	if t.Jar == nil {
		return
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		t.Jar.SetCookies(req.URL, cookies)
	}
}

func (t *Transport) loadCookies(req *http.Request) {
	if t.Jar == nil {
		return
	}
	cookies := t.Jar.Cookies(req.URL)
	if len(cookies) == 0 {
		return
	}
	req.Header.Del("Cookie")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
}

// bufferBody reads and closes req.Body so every attempt can replay it.
func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}
	return body, nil
}

// withBody returns a shallow copy of req reading from its own copy of body.
func withBody(req *http.Request, body []byte) *http.Request {
	if body == nil {
		return req
	}
	attempt := req.Clone(req.Context())
	attempt.Body = ioutil.NopCloser(bytes.NewReader(body))
	attempt.GetBody = func() (io.ReadCloser, error) {
		return ioutil.NopCloser(bytes.NewReader(body)), nil
	}
	attempt.ContentLength = int64(len(body))
	return attempt
}
