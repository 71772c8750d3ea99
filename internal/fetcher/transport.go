package fetcher

import (
	"net/http"

	"github.com/nao1215/webharvest/internal/config"
)

// siteTransport injects the cookie, headers and user agent configured for
// the request's host. Redirects to another host pick up that host's settings.
type siteTransport struct {
	base  http.RoundTripper
	sites *config.File
}

// RoundTrip implements http.RoundTripper.
func (t *siteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	site := t.sites.SiteFor(req.URL.Hostname())
	if site.Cookie == "" && len(site.Headers) == 0 && site.UserAgent == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	if site.Cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+site.Cookie)
		} else {
			clone.Header.Set("Cookie", site.Cookie)
		}
	}
	if site.UserAgent != "" {
		clone.Header.Set("User-Agent", site.UserAgent)
	}
	for key, value := range site.Headers {
		clone.Header.Set(key, value)
	}
	return t.base.RoundTrip(clone)
}
