package flow

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xsrfclient/cookiejar"
)

type recorded struct {
	method      string
	token       string
	contentType string
	body        string
}

type resourceServer struct {
	*httptest.Server
	requests   []recorded
	setToken   bool
	getStatus  int
	postStatus int
}

func newResourceServer(t *testing.T) *resourceServer {
	s := &resourceServer{setToken: true, getStatus: http.StatusOK, postStatus: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := ioutil.ReadAll(r.Body)
		assert.NoError(t, err)
		s.requests = append(s.requests, recorded{
			method:      r.Method,
			token:       r.Header.Get(TokenHeader),
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		})
		switch r.Method {
		case http.MethodGet:
			if s.setToken {
				http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "abc123", Path: "/"})
			}
			w.WriteHeader(s.getStatus)
			w.Write([]byte("resource"))
		case http.MethodPost:
			w.WriteHeader(s.postStatus)
			w.Write([]byte("created"))
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newFlow(t *testing.T, srv *resourceServer) (*Flow, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	jar := cookiejar.New()
	return &Flow{
		Client: resty.New().SetCookieJar(jar),
		Jar:    jar,
		URL:    srv.URL + "/api/resource",
		Log:    logger,
	}, hook
}

func hostOf(t *testing.T, raw string) string {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Hostname()
}

func TestRunPostsToken(t *testing.T) {
	srv := newResourceServer(t)
	f, hook := newFlow(t, srv)

	require.NoError(t, f.Run(context.Background()))

	cookies := f.Jar.Load(hostOf(t, srv.URL))
	require.Len(t, cookies, 1)
	assert.Equal(t, TokenCookie, cookies[0].Name)
	assert.Equal(t, "abc123", cookies[0].Value)

	require.Len(t, srv.requests, 2)
	assert.Equal(t, http.MethodGet, srv.requests[0].method)
	assert.Empty(t, srv.requests[0].body)

	post := srv.requests[1]
	assert.Equal(t, http.MethodPost, post.method)
	assert.Equal(t, "abc123", post.token)
	assert.Equal(t, JSONContentType, post.contentType)
	assert.Equal(t, "{}", post.body)

	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, e.Level)
	}
	assert.Equal(t, "POST created", hook.LastEntry().Message)
}

func TestRunSkipsPostWithoutToken(t *testing.T) {
	srv := newResourceServer(t)
	srv.setToken = false
	f, _ := newFlow(t, srv)

	require.NoError(t, f.Run(context.Background()))

	require.Len(t, srv.requests, 1)
	assert.Equal(t, http.MethodGet, srv.requests[0].method)
}

func TestRunGetFailure(t *testing.T) {
	srv := newResourceServer(t)
	srv.getStatus = http.StatusInternalServerError
	f, _ := newFlow(t, srv)

	err := f.Run(context.Background())
	require.Error(t, err)

	reqErr, ok := err.(*RequestError)
	require.True(t, ok, "want *RequestError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Equal(t, http.MethodGet, reqErr.Method)
	assert.Equal(t, "resource", reqErr.Body)

	require.Len(t, srv.requests, 1)
}

func TestRunPostFailureIsLogged(t *testing.T) {
	srv := newResourceServer(t)
	srv.postStatus = http.StatusInternalServerError
	f, hook := newFlow(t, srv)

	require.NoError(t, f.Run(context.Background()))
	require.Len(t, srv.requests, 2)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Post failed", entry.Message)

	reqErr, ok := entry.Data[logrus.ErrorKey].(*RequestError)
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, reqErr.Method)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
}

func TestRunGetTransportError(t *testing.T) {
	srv := newResourceServer(t)
	f, _ := newFlow(t, srv)
	srv.Close()

	err := f.Run(context.Background())
	require.Error(t, err)
	_, isStatus := err.(*RequestError)
	assert.False(t, isStatus)
}

func TestRunBadURL(t *testing.T) {
	f := &Flow{Client: resty.New(), Jar: cookiejar.New(), URL: "http://[::1", Log: logrus.New()}
	assert.Error(t, f.Run(context.Background()))
}
