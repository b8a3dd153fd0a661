package media

import (
	"net/url"
	"strings"
)

// Resolver maps a stored asset URL back to the object key the host uses.
type Resolver struct {
	base *url.URL
}

// NewResolver returns a Resolver for URLs under baseURL. An unparseable
// base yields a Resolver that resolves nothing.
func NewResolver(baseURL string) *Resolver {
	u, err := url.Parse(strings.TrimSuffix(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Host == "" {
		return &Resolver{}
	}
	return &Resolver{base: u}
}

// StorageID returns the object key for assetURL, or "" when the URL is
// empty, unparseable, or not under the base URL. Callers skip removal on "".
func (r *Resolver) StorageID(assetURL string) string {
	if r == nil || r.base == nil || strings.TrimSpace(assetURL) == "" {
		return ""
	}
	u, err := url.Parse(assetURL)
	if err != nil {
		return ""
	}
	if !strings.EqualFold(u.Scheme, r.base.Scheme) || !strings.EqualFold(u.Host, r.base.Host) {
		return ""
	}

	prefix := r.base.Path + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return ""
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" || strings.HasSuffix(key, "/") {
		return ""
	}
	return key
}
