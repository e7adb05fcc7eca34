// Package cluster maps cluster keys to upstream base URLs.
package cluster

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// Resolver resolves a cluster key to its base URL. Unknown or empty keys
// resolve to the default cluster; resolution itself never fails.
type Resolver struct {
	table      map[string]*url.URL
	def        *url.URL
	defaultKey string
}

// New builds a Resolver from a key -> base URL table. defaultKey must be
// present in the table; malformed URLs are a construction error, not a
// resolution error.
func New(table map[string]string, defaultKey string) (*Resolver, error) {
	if len(table) == 0 {
		return nil, eris.New("cluster: empty cluster table")
	}
	parsed := make(map[string]*url.URL, len(table))
	for key, raw := range table {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "cluster: parse base url for %q", key)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, eris.Errorf("cluster: base url for %q missing scheme or host: %q", key, raw)
		}
		parsed[normalizeKey(key)] = u
	}
	defaultKey = normalizeKey(defaultKey)
	def, ok := parsed[defaultKey]
	if !ok {
		return nil, eris.Errorf("cluster: default cluster %q not in table", defaultKey)
	}
	return &Resolver{table: parsed, def: def, defaultKey: defaultKey}, nil
}

// BaseURL returns the base URL for key, or the default cluster's URL when
// key is empty or unrecognized. A copy is returned so callers can mutate it.
func (r *Resolver) BaseURL(key string) *url.URL {
	u, ok := r.table[normalizeKey(key)]
	if !ok {
		u = r.def
	}
	clone := *u
	return &clone
}

// Resolve returns the effective cluster key alongside its base URL, so
// callers can record which cluster actually served a request.
func (r *Resolver) Resolve(key string) (string, *url.URL) {
	k := normalizeKey(key)
	if _, ok := r.table[k]; !ok {
		k = r.defaultKey
	}
	return k, r.BaseURL(k)
}

// Keys returns the known cluster keys.
func (r *Resolver) Keys() []string {
	keys := make([]string, 0, len(r.table))
	for k := range r.table {
		keys = append(keys, k)
	}
	return keys
}

// DefaultKey returns the configured default cluster key.
func (r *Resolver) DefaultKey() string { return r.defaultKey }

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
