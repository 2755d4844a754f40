package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTranscriptBytes is the largest transcript accepted for structuring.
// Longer recordings should be chunked by the caller before submission.
const MaxTranscriptBytes = 1 << 20 // 1 MiB

// ValidateTranscript validates a raw thought-stream transcript before it is
// sent to the structuring service.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only transcripts
//   - Must be valid UTF-8
//   - No null bytes
//   - Maximum size of MaxTranscriptBytes
func ValidateTranscript(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidTranscript, "transcript cannot be empty")
	}

	if len(text) > MaxTranscriptBytes {
		return New(ErrCodeInvalidTranscript, "transcript too large (max %d bytes)", MaxTranscriptBytes)
	}

	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidTranscript, "transcript is not valid UTF-8")
	}

	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidTranscript, "transcript contains null bytes")
	}

	return nil
}

// ValidateMapTitle validates a saved map title.
// Titles are displayed in lists and used in export filenames, so control
// characters and path separators are rejected.
func ValidateMapTitle(title string) error {
	if title == "" {
		return New(ErrCodeInvalidInput, "map title cannot be empty")
	}

	if len(title) > 256 {
		return New(ErrCodeInvalidInput, "map title too long (max 256 characters)")
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "map title contains control characters")
		}
	}

	if strings.ContainsAny(title, "/\\") {
		return New(ErrCodeInvalidInput, "map title cannot contain path separators")
	}

	return nil
}

// ValidateNodeID validates a node identifier received across a boundary
// (CLI flag, HTTP request). Engine-internal ids are UUIDs, but imported
// documents may carry arbitrary ids, so only clearly broken values are
// rejected.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "node id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id contains whitespace or control characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
// Link URLs arrive from enrichment responses and user edits; anything else
// (javascript:, file:, data:) is rejected before it reaches a rendering
// surface.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
