package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rvachev/artel/internal/catalog"
	"github.com/rvachev/artel/internal/genai"
	"github.com/rvachev/artel/internal/recommend"
)

const defaultTimeout = 30 * time.Second

// Message roles in a conversation transcript. The caller owns and resupplies
// the full transcript each turn; nothing is stored server-side.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Action distinguishes the two possible outcomes of a chat turn.
type Action string

const (
	// ActionContinue carries a free-text assistant reply.
	ActionContinue Action = "continue"
	// ActionRecommend carries a structured filter set ready for ranking.
	ActionRecommend Action = "recommend"
)

// Result is the outcome of intent extraction for one turn.
type Result struct {
	Action  Action
	Filters recommend.Filters
	Reply   string
}

// upstreamFallbackReply is returned whenever the generation call itself
// fails. The conversation must always be able to proceed.
const upstreamFallbackReply = "I'm having trouble connecting. Please try again."

// recommendMarker is the literal the raw model output is scanned for before
// any JSON parsing is attempted.
const recommendMarker = `"action": "recommend"`

// recommendReply is the acknowledgment sent alongside a recommendation;
// the composer produces the definitive result message downstream.
const recommendReply = "Let me find the perfect artworks for you!"

// Extractor turns a conversation transcript into either a free-text
// continuation or a structured recommendation request, by delegating text
// generation to an external engine and parsing its output leniently.
type Extractor struct {
	engine    genai.Engine
	available catalog.AvailableFilters
	timeout   time.Duration
}

// NewExtractor creates an Extractor bound to the given engine and catalog
// vocabulary. If timeout <= 0 the default (30s) applies.
func NewExtractor(engine genai.Engine, available catalog.AvailableFilters, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Extractor{engine: engine, available: available, timeout: timeout}
}

// Extract runs one turn of the extraction protocol. It never returns an
// error: upstream failures become an apologetic "continue" reply, and
// unparseable recommend payloads degrade to "continue" with the raw text.
func (e *Extractor) Extract(ctx context.Context, messages []Message) Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := BuildPrompt(e.available, messages)

	raw, err := e.engine.GenerateText(ctx, prompt)
	if err != nil {
		slog.Warn("intent extraction generation failed", "provider", e.engine.Name(), "error", err)
		return Result{Action: ActionContinue, Reply: upstreamFallbackReply}
	}

	if !strings.Contains(raw, recommendMarker) && !strings.Contains(raw, compactMarker) {
		return Result{Action: ActionContinue, Reply: raw}
	}

	filters, err := parseFilters(raw)
	if err != nil {
		slog.Warn("failed to parse recommendation filters", "error", err, "response", raw)
		return Result{Action: ActionContinue, Reply: raw}
	}

	return Result{Action: ActionRecommend, Filters: filters, Reply: recommendReply}
}

// compactMarker covers models that omit the space after the colon.
const compactMarker = `"action":"recommend"`

// parseFilters recovers the recommendation object from raw model output.
// Models routinely wrap the JSON in prose or markdown fences, so the parser
// is deliberately permissive: strip fences if present, then take everything
// between the first { and the last } and unmarshal that.
func parseFilters(raw string) (recommend.Filters, error) {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
		if strings.HasPrefix(s, "json") {
			s = s[4:]
		}
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return recommend.Filters{}, fmt.Errorf("no JSON object in response")
	}

	var payload struct {
		Action  string            `json:"action"`
		Filters recommend.Filters `json:"filters"`
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), &payload); err != nil {
		return recommend.Filters{}, err
	}

	return payload.Filters, nil
}
