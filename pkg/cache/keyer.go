package cache

// Keyer generates cache keys for the operations voice2map caches.
// Centralizing key derivation keeps every caller hashing its inputs the
// same way, so the CLI and the server share cache entries.
type Keyer interface {
	// HTTPKey generates a key for a raw HTTP response.
	HTTPKey(namespace, key string) string

	// TranscriptKey generates a key for a structured-transcript result.
	// The transcript itself is hashed, never embedded.
	TranscriptKey(model, transcript string, opts TranscriptKeyOpts) string

	// SearchKey generates a key for a search-enrichment result.
	SearchKey(query string, opts SearchKeyOpts) string
}

// TranscriptKeyOpts are the options that change a structuring result.
type TranscriptKeyOpts struct {
	MaxNodes int    `json:"max_nodes,omitempty"`
	Language string `json:"language,omitempty"`
}

// SearchKeyOpts are the options that change a search result.
type SearchKeyOpts struct {
	Count int `json:"count,omitempty"`
}

// DefaultKeyer is the standard Keyer implementation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
// Format: http:{namespace}:{key}
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// TranscriptKey generates a key for transcript structuring results.
// Format: transcript:{hash(model, transcript, opts)}
func (k *DefaultKeyer) TranscriptKey(model, transcript string, opts TranscriptKeyOpts) string {
	return hashKey("transcript", model, transcript, opts)
}

// SearchKey generates a key for search enrichment results.
// Format: search:{hash(query, opts)}
func (k *DefaultKeyer) SearchKey(query string, opts SearchKeyOpts) string {
	return hashKey("search", query, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
