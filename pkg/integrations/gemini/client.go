// Package gemini structures voice-note transcripts into canonical mind-map
// trees using Google's Gemini generateContent API.
//
// The model is constrained to a fixed JSON response schema, so a successful
// call always decodes into nested outline records. Node ids and timestamps
// are assigned locally after decoding; the model never sees or produces ids.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yaohuangguan/orion-voice2map/pkg/cache"
	apperrors "github.com/yaohuangguan/orion-voice2map/pkg/errors"
	"github.com/yaohuangguan/orion-voice2map/pkg/integrations"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

const (
	// DefaultModel is used when Options.Model is empty.
	DefaultModel = "gemini-2.0-flash"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// maxOutlineDepth bounds how deep a decoded outline may nest. The
	// schema sent to the model stops at this depth too, so anything
	// deeper indicates a malformed response.
	maxOutlineDepth = 16
)

// Options tune a structuring request. The zero value is usable.
type Options struct {
	Model    string // model name (default: DefaultModel)
	MaxNodes int    // soft cap passed to the model prompt (0 = no cap)
	Language string // output language hint (e.g. "en", "de"; "" = match transcript)
}

// Client calls the Gemini API to turn transcripts into trees and to suggest
// reference links for individual nodes.
//
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	keyer   cache.Keyer
	opts    Options
}

// NewClient creates a Gemini client.
//
// Parameters:
//   - apiKey: Gemini API key (sent as x-goog-api-key on every request)
//   - backend: cache backend for structuring results (use cache.NewNullCache() for none)
//   - cacheTTL: how long structuring results are cached
//   - opts: model and prompt options
//
// The returned Client is safe for concurrent use.
func NewClient(apiKey string, backend cache.Cache, cacheTTL time.Duration, opts Options) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &Client{
		Client:  integrations.NewClient(backend, cacheTTL, map[string]string{"x-goog-api-key": apiKey}),
		baseURL: defaultBaseURL,
		keyer:   cache.NewDefaultKeyer(),
		opts:    opts,
	}
}

// outline is the shape the response schema forces the model to produce.
// It mirrors mindmap.Node minus everything the model must not control
// (ids, timestamps, styles, links).
type outline struct {
	Label    string    `json:"label"`
	Details  string    `json:"details,omitempty"`
	Category string    `json:"category,omitempty"`
	Children []outline `json:"children,omitempty"`
}

// generateContent request/response envelopes, reduced to the fields used.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// StructureTranscript converts a raw transcript into a canonical tree.
//
// The transcript is validated first; an empty, oversized, or non-UTF-8
// transcript fails with an INVALID_TRANSCRIPT error before any network
// call. Results are cached by transcript hash plus options, so repeating
// the same transcript is free; set refresh to bypass the cache.
//
// Returns a fully-populated root node with fresh ids, or a
// STRUCTURAL_FAILURE error when the model's output cannot be used.
func (c *Client) StructureTranscript(ctx context.Context, transcript string, refresh bool) (*mindmap.Node, error) {
	if err := apperrors.ValidateTranscript(transcript); err != nil {
		return nil, err
	}

	key := c.keyer.TranscriptKey(c.opts.Model, transcript, cache.TranscriptKeyOpts{
		MaxNodes: c.opts.MaxNodes,
		Language: c.opts.Language,
	})

	var out outline
	err := c.Cached(ctx, key, refresh, &out, func() error {
		return c.generate(ctx, structuringPrompt(transcript, c.opts), &out)
	})
	if err != nil {
		return nil, err
	}

	root, err := out.toNode(0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStructural, err, "model returned an unusable outline")
	}
	if err := mindmap.Validate(root); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStructural, err, "model returned an invalid tree")
	}
	return root, nil
}

// SuggestLinks asks the model for reference links relevant to a node.
// The label is used as the topic; details, when present, disambiguate it.
// Invalid URLs in the response are dropped rather than failing the call.
func (c *Client) SuggestLinks(ctx context.Context, label, details string, refresh bool) ([]mindmap.Link, error) {
	if strings.TrimSpace(label) == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "node label cannot be empty")
	}

	key := c.keyer.SearchKey(label+"\x00"+details, cache.SearchKeyOpts{})

	var raw []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	err := c.Cached(ctx, key, refresh, &raw, func() error {
		return c.generate(ctx, linkPrompt(label, details), &raw)
	})
	if err != nil {
		return nil, err
	}

	links := make([]mindmap.Link, 0, len(raw))
	for _, r := range raw {
		if apperrors.ValidateURL(r.URL) != nil {
			continue
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = r.URL
		}
		links = append(links, mindmap.Link{Title: title, URL: r.URL})
	}
	return links, nil
}

// generate performs one schema-constrained generateContent call and decodes
// the candidate text into v.
func (c *Client) generate(ctx context.Context, prompt string, v any) error {
	temp := 0.2
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			Temperature:      &temp,
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.opts.Model)

	var resp generateResponse
	if err := c.Post(ctx, url, req, &resp); err != nil {
		return err
	}
	text, err := candidateText(&resp)
	if err != nil {
		return err
	}
	if err := integrations.DecodeJSONString(text, v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStructural, err, "model response is not valid JSON")
	}
	return nil
}

// candidateText extracts the first candidate's concatenated text parts.
func candidateText(resp *generateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", apperrors.New(apperrors.ErrCodeStructural, "model returned no candidates")
	}
	cand := resp.Candidates[0]
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return "", apperrors.New(apperrors.ErrCodeStructural, "model candidate is empty (finish reason: %s)", cand.FinishReason)
	}
	return b.String(), nil
}

// toNode converts a decoded outline into a canonical node, assigning fresh
// ids and timestamps. Labels are trimmed; a blank label fails the whole
// conversion since every node needs one. Unknown categories are dropped to
// uncategorized instead of failing.
func (o outline) toNode(depth int) (*mindmap.Node, error) {
	if depth > maxOutlineDepth {
		return nil, fmt.Errorf("outline nests deeper than %d levels", maxOutlineDepth)
	}
	label := strings.TrimSpace(o.Label)
	if label == "" {
		return nil, fmt.Errorf("outline node at depth %d has no label", depth)
	}

	n := mindmap.New(label)
	n.Details = strings.TrimSpace(o.Details)
	if cat := mindmap.Category(o.Category); cat.Valid() {
		n.Category = cat
	}
	for _, child := range o.Children {
		cn, err := child.toNode(depth + 1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	return n, nil
}

func structuringPrompt(transcript string, opts Options) string {
	var b strings.Builder
	b.WriteString("Organize the following voice-note transcript into a mind map outline.\n")
	b.WriteString("Respond with a single JSON object: {\"label\": string, \"details\": string, \"category\": string, \"children\": [...]} nested recursively.\n")
	b.WriteString("The root label is the central topic. Categories, when clear, are one of: idea, task, question, fact. Omit the field otherwise.\n")
	if opts.MaxNodes > 0 {
		fmt.Fprintf(&b, "Use at most %d nodes in total.\n", opts.MaxNodes)
	}
	if opts.Language != "" {
		fmt.Fprintf(&b, "Write all labels and details in %s.\n", opts.Language)
	}
	b.WriteString("\nTranscript:\n")
	b.WriteString(transcript)
	return b.String()
}

func linkPrompt(label, details string) string {
	var b strings.Builder
	b.WriteString("Suggest up to 3 authoritative web references for the topic below.\n")
	b.WriteString("Respond with a JSON array of {\"title\": string, \"url\": string}. Only include real, well-known URLs.\n\n")
	b.WriteString("Topic: ")
	b.WriteString(label)
	if details != "" {
		b.WriteString("\nContext: ")
		b.WriteString(details)
	}
	return b.String()
}
