// Package auth answers HTTP 401 challenges with a basic-auth credential.
package auth

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// Credentials is a basic-auth username/password pair.
type Credentials struct {
	Username string
	Password string
}

// Header returns the Authorization header value for c.
func (c Credentials) Header() string {
	raw := c.Username + ":" + c.Password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// Authenticator decides how to answer a challenge response. It returns the
// request to send next, or nil to give up and hand resp to the caller.
type Authenticator func(req *http.Request, resp *http.Response) *http.Request

// Basic returns an Authenticator that retries once with creds attached.
// A request that already carried an Authorization header is never retried.
func Basic(creds Credentials, log logrus.FieldLogger) Authenticator {
	return func(req *http.Request, resp *http.Response) *http.Request {
		if req.Header.Get("Authorization") != "" {
			// already tried, give up
			return nil
		}

		log.WithFields(logrus.Fields{
			"status":     resp.Status,
			"url":        req.URL.String(),
			"challenges": Challenges(resp),
		}).Debug("authenticating for response")

		retry := req.Clone(req.Context())
		retry.Header.Set("Authorization", creds.Header())
		return retry
	}
}

// Challenge is one parsed WWW-Authenticate entry.
type Challenge struct {
	Scheme string
	Realm  string
}

// Challenges parses the WWW-Authenticate headers of resp.
func Challenges(resp *http.Response) []Challenge {
	var challenges []Challenge
	for _, value := range resp.Header[http.CanonicalHeaderKey("WWW-Authenticate")] {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		scheme, params := value, ""
		if i := strings.IndexByte(value, ' '); i >= 0 {
			scheme, params = value[:i], value[i+1:]
		}
		c := Challenge{Scheme: scheme}
		for _, param := range strings.Split(params, ",") {
			kv := strings.SplitN(strings.TrimSpace(param), "=", 2)
			if len(kv) == 2 && strings.EqualFold(kv[0], "realm") {
				c.Realm = strings.Trim(kv[1], `"`)
			}
		}
		challenges = append(challenges, c)
	}
	return challenges
}
