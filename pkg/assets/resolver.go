package assets

import "strings"

// Resolver turns a source asset path into the URL path it is served at.
type Resolver interface {
	// Path resolves a source asset path to its full URL path, including
	// the prefix and fingerprinted filename.
	//
	// Example:
	//   resolver.Path("css/site.css") → "/static/css/site.3f2a9c1b.css"
	Path(source string) string
}

// manifestResolver wraps a Manifest to implement Resolver.
type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver from a Manifest with a path prefix.
// A missing trailing slash is added to a non-empty prefix.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   normalizePrefix(prefix),
	}
}

func (r *manifestResolver) Path(source string) string {
	return r.prefix + r.manifest.Resolve(strings.TrimPrefix(source, "/"))
}

// passthrough returns assets unchanged (for development mode).
type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that only applies the prefix.
// Use it when assets are served under their source names, for example
// while editing the stylesheet.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: normalizePrefix(prefix)}
}

func (p *passthrough) Path(source string) string {
	return p.prefix + strings.TrimPrefix(source, "/")
}

func normalizePrefix(prefix string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
