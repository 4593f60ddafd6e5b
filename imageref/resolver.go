// Package imageref turns raw product image references into displayable
// sources and tracks the one-shot placeholder fallback used when an image
// fails to load.
package imageref

import (
	"net/url"
	"strings"
)

// DefaultPlaceholder is the bundled asset shown when a product has no usable image.
const DefaultPlaceholder = "images/placeholder.png"

// DefaultSentinels are raw values the backend uses for "no image".
var DefaultSentinels = []string{"N/A", "null", "none", "undefined"}

var absoluteSchemes = map[string]struct{}{
	"http":             {},
	"https":            {},
	"data":             {},
	"file":             {},
	"blob":             {},
	"chrome-extension": {},
	"moz-extension":    {},
}

// AssetFunc resolves a path relative to the bundled assets into a loadable URL.
type AssetFunc func(path string) string

// ImageResolver is the capability the result list depends on.
type ImageResolver interface {
	Resolve(raw string) string
	Placeholder() string
}

// Resolver implements ImageResolver.
type Resolver struct {
	placeholder string
	sentinels   map[string]struct{}
	asset       AssetFunc
}

var _ ImageResolver = (*Resolver)(nil)

// NewResolver builds a Resolver. A nil asset func leaves relative paths as
// they are; an empty placeholder falls back to DefaultPlaceholder.
func NewResolver(placeholder string, asset AssetFunc, sentinels ...string) *Resolver {
	if strings.TrimSpace(placeholder) == "" {
		placeholder = DefaultPlaceholder
	}
	if asset == nil {
		asset = func(path string) string { return path }
	}
	if len(sentinels) == 0 {
		sentinels = DefaultSentinels
	}
	set := make(map[string]struct{}, len(sentinels))
	for _, s := range sentinels {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return &Resolver{placeholder: placeholder, sentinels: set, asset: asset}
}

// Placeholder returns the resolved placeholder source.
func (r *Resolver) Placeholder() string {
	if hasAbsoluteScheme(r.placeholder) {
		return r.placeholder
	}
	return r.asset(strings.TrimLeft(r.placeholder, "/"))
}

// Resolve maps a raw reference to a displayable source.
func (r *Resolver) Resolve(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return r.Placeholder()
	}
	if _, ok := r.sentinels[strings.ToLower(v)]; ok {
		return r.Placeholder()
	}
	u, err := url.Parse(v)
	if err != nil {
		return r.Placeholder()
	}
	if strings.HasPrefix(v, "//") {
		// protocol-relative; assume https
		return "https:" + v
	}
	if _, ok := absoluteSchemes[strings.ToLower(u.Scheme)]; ok {
		return v
	}
	if u.Scheme != "" {
		return r.Placeholder()
	}
	return r.asset(strings.TrimLeft(v, "/"))
}

func hasAbsoluteScheme(v string) bool {
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	_, ok := absoluteSchemes[strings.ToLower(u.Scheme)]
	return ok
}

// AssetBase returns an AssetFunc that joins paths onto base, e.g.
// "chrome-extension://<id>/" or "file:///usr/share/gemtui/".
func AssetBase(base string) AssetFunc {
	base = strings.TrimSpace(base)
	return func(path string) string {
		if base == "" {
			return path
		}
		joined, err := url.JoinPath(base, path)
		if err != nil {
			return strings.TrimRight(base, "/") + "/" + path
		}
		return joined
	}
}
