// Package flow runs the XSRF handshake: GET the resource, pick the
// XSRF-TOKEN cookie out of the jar and echo it back on a POST.
package flow

import (
	"context"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"xsrfclient/cookiejar"
)

const (
	TokenCookie     = "XSRF-TOKEN"
	TokenHeader     = "X-XSRF-TOKEN"
	JSONContentType = "application/json; charset=utf-8"
)

type Flow struct {
	Client *resty.Client
	Jar    *cookiejar.HostJar
	URL    string
	Log    logrus.FieldLogger
}

// Run performs the GET and, when the server handed out a token, the POST.
// A failed GET is returned; a failed POST is only logged.
func (f *Flow) Run(ctx context.Context) error {
	target, err := url.Parse(f.URL)
	if err != nil {
		return errors.Wrapf(err, "parse url %q", f.URL)
	}

	getRsp, err := f.Client.R().SetContext(ctx).Get(f.URL)
	if err != nil {
		return errors.Wrapf(err, "GET %s", f.URL)
	}
	if !getRsp.IsSuccess() {
		return newRequestError(getRsp)
	}
	f.Log.Debugf("GET %s", getRsp.String())

	token, ok := f.Jar.Get(target.Hostname(), TokenCookie)
	if !ok {
		f.Log.Debugf("no %s cookie from %s, skipping POST", TokenCookie, target.Hostname())
		return nil
	}

	if err := f.post(ctx, token.Value); err != nil {
		f.Log.WithError(err).Error("Post failed")
	}
	return nil
}

func (f *Flow) post(ctx context.Context, token string) error {
	postRsp, err := f.Client.R().
		SetContext(ctx).
		SetHeader("Content-Type", JSONContentType).
		SetHeader(TokenHeader, token).
		SetBody("{}").
		Post(f.URL)
	if err != nil {
		return errors.Wrapf(err, "POST %s", f.URL)
	}
	if !postRsp.IsSuccess() {
		return newRequestError(postRsp)
	}
	f.Log.Debugf("POST %s", postRsp.String())
	return nil
}
