package cookiejar

import (
	"net/http"
	"net/url"
	"sync"
)

// HostJar keeps the most recent cookies received from each host.
// A new response from a host replaces the previous entry wholesale,
// there is no merging and no expiry.
type HostJar struct {
	mu      sync.RWMutex
	cookies map[string][]*http.Cookie
}

func New() *HostJar {
	return &HostJar{cookies: make(map[string][]*http.Cookie)}
}

// Save replaces whatever is stored for host with cookies.
func (j *HostJar) Save(host string, cookies []*http.Cookie) {
	saved := make([]*http.Cookie, len(cookies))
	copy(saved, cookies)

	j.mu.Lock()
	j.cookies[host] = saved
	j.mu.Unlock()
}

// Load returns the cookies last saved for host, or an empty slice.
func (j *HostJar) Load(host string) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	stored := j.cookies[host]
	cookies := make([]*http.Cookie, len(stored))
	copy(cookies, stored)
	return cookies
}

// Get returns the first cookie named name stored for host.
func (j *HostJar) Get(host, name string) (*http.Cookie, bool) {
	for _, cookie := range j.Load(host) {
		if cookie.Name == name {
			return cookie, true
		}
	}
	return nil, false
}

func (j *HostJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.Save(u.Hostname(), cookies)
}

func (j *HostJar) Cookies(u *url.URL) []*http.Cookie {
	return j.Load(u.Hostname())
}
