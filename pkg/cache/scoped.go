package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server uses this to keep per-session caches apart while the CLI
// shares one global namespace.
//
// Example usage:
//
//	// Session-specific keys
//	sessionKeyer := NewScopedKeyer(NewDefaultKeyer(), "session:abc123:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// TranscriptKey generates a prefixed key for transcript structuring results.
func (k *ScopedKeyer) TranscriptKey(model, transcript string, opts TranscriptKeyOpts) string {
	return k.prefix + k.inner.TranscriptKey(model, transcript, opts)
}

// SearchKey generates a prefixed key for search enrichment results.
func (k *ScopedKeyer) SearchKey(query string, opts SearchKeyOpts) string {
	return k.prefix + k.inner.SearchKey(query, opts)
}
