// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate writes the body of a research paper with a Generative AI
// provider. A Generator renders a prompt profile around a topic and its
// references, calls the provider with retries, and decodes the JSON reply
// into a Draft.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// ErrEmptyResponse is returned when a provider answers with no usable text.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// Prompt is one provider request.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// Provider abstracts the Generative AI API so tests can supply a mock.
// Complete returns the raw text of the model's reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Draft is the generated title and sections before references and storage
// metadata are attached.
type Draft struct {
	Title string `json:"title"`
	types.Sections
}

// Paper assembles a storable paper from the draft.
func (d Draft) Paper(topic string, refs []types.Reference, style types.CitationStyle) types.Paper {
	return types.Paper{
		Topic:         topic,
		Title:         d.Title,
		Sections:      d.Sections,
		References:    refs,
		CitationStyle: style,
	}
}

// Generator turns a topic and references into a Draft.
type Generator struct {
	provider   Provider
	profile    Profile
	maxRetries int
}

// NewGenerator returns a Generator. A negative maxRetries disables retries;
// zero selects the default of 3.
func NewGenerator(p Provider, profile Profile, maxRetries int) *Generator {
	switch {
	case maxRetries == 0:
		maxRetries = 3
	case maxRetries < 0:
		maxRetries = 0
	}
	return &Generator{provider: p, profile: profile, maxRetries: maxRetries}
}

// Generate asks the provider for a paper on topic that cites refs in style.
func (g *Generator) Generate(ctx context.Context, topic string, refs []types.Reference, style types.CitationStyle) (Draft, error) {
	prompt, err := g.profile.Render(topic, refs, style)
	if err != nil {
		return Draft{}, fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := callWithRetry(ctx, g.provider, prompt, g.maxRetries)
	if err != nil {
		return Draft{}, fmt.Errorf("%s: %w", g.provider.Name(), err)
	}
	return parseDraft(text, topic)
}

// Close releases provider resources, if any.
func (g *Generator) Close() error {
	if c, ok := g.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the provider with exponential backoff.
func callWithRetry(ctx context.Context, p Provider, prompt Prompt, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := p.Complete(ctx, prompt)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// parseDraft decodes the model's JSON reply. Models sometimes wrap JSON in
// a Markdown code fence despite instructions.
func parseDraft(text, topic string) (Draft, error) {
	text = stripCodeFence(text)
	if start := strings.Index(text, "{"); start > 0 {
		text = text[start:]
	}
	if end := strings.LastIndex(text, "}"); end >= 0 && end < len(text)-1 {
		text = text[:end+1]
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return Draft{}, fmt.Errorf("parsing generated paper JSON: %w", err)
	}

	d := Draft{
		Title: strings.TrimSpace(coerceText(fields["title"], " ")),
		Sections: types.Sections{
			Abstract:     coerceText(fields["abstract"], paragraphSep),
			Introduction: coerceText(fields["introduction"], paragraphSep),
			Methods:      coerceText(fields["methods"], paragraphSep),
			Results:      coerceText(fields["results"], paragraphSep),
			Discussion:   coerceText(fields["discussion"], paragraphSep),
			Conclusion:   coerceText(fields["conclusion"], paragraphSep),
		},
	}
	if d.Title == "" {
		d.Title = "Research Paper on " + topic
	}
	return d, nil
}

const paragraphSep = "\n\n"

// coerceText flattens a decoded JSON value to text. Models occasionally
// return a section as a list of paragraphs; those are joined with sep.
// Objects and nulls become empty.
func coerceText(v any, sep string) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(coerceText(item, sep)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}
