package intent

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rvachev/artel/internal/catalog"
	"github.com/rvachev/artel/internal/recommend"
)

// mockEngine implements genai.Engine for testing.
type mockEngine struct {
	response string
	err      error
	delay    time.Duration
	prompt   string // captures the last prompt sent
}

func (m *mockEngine) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.response, m.err
}

func (m *mockEngine) IsReady(ctx context.Context) bool { return true }
func (m *mockEngine) Name() string                     { return "mock" }

func testAvailable() catalog.AvailableFilters {
	return catalog.AvailableFilters{
		Styles:     []string{"landscape", "portrait"},
		Colors:     []string{"blue", "green"},
		Moods:      []string{"serene"},
		PriceRange: catalog.PriceRange{MinLakhs: 2.5, MaxLakhs: 4.9},
	}
}

func transcript(contents ...string) []Message {
	msgs := make([]Message, len(contents))
	for i, c := range contents {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		msgs[i] = Message{Role: role, Content: c}
	}
	return msgs
}

func TestExtract_ContinueReply(t *testing.T) {
	mock := &mockEngine{response: "Great choice! What colors would you like in the artwork?"}
	e := NewExtractor(mock, testAvailable(), 0)

	got := e.Extract(context.Background(), transcript("I like Landscape"))

	if got.Action != ActionContinue {
		t.Fatalf("Action = %q, want continue", got.Action)
	}
	if got.Reply != mock.response {
		t.Errorf("Reply = %q, want model output verbatim", got.Reply)
	}
}

func TestExtract_Recommend(t *testing.T) {
	mock := &mockEngine{
		response: `{"action": "recommend", "filters": {"style": "Landscape", "colors": ["blue", "green"], "max_price": 300000}}`,
	}
	e := NewExtractor(mock, testAvailable(), 0)

	got := e.Extract(context.Background(), transcript("I like Landscape", "What colors?", "Blue and green", "Budget?", "Under 3 lakhs"))

	if got.Action != ActionRecommend {
		t.Fatalf("Action = %q, want recommend", got.Action)
	}
	want := recommend.Filters{Style: "Landscape", Colors: []string{"blue", "green"}, MaxPrice: 300000}
	if !reflect.DeepEqual(got.Filters, want) {
		t.Errorf("Filters = %+v, want %+v", got.Filters, want)
	}
	if got.Reply == "" {
		t.Error("Reply should not be empty on recommend")
	}
}

func TestExtract_RecommendWrappedInProse(t *testing.T) {
	mock := &mockEngine{
		response: `Sure! {"action": "recommend", "filters": {"style": "landscape", "max_price": 300000}} thanks`,
	}
	e := NewExtractor(mock, testAvailable(), 0)

	got := e.Extract(context.Background(), transcript("under 3 lakhs"))

	if got.Action != ActionRecommend {
		t.Fatalf("Action = %q, want recommend despite surrounding prose", got.Action)
	}
	want := recommend.Filters{Style: "landscape", MaxPrice: 300000}
	if !reflect.DeepEqual(got.Filters, want) {
		t.Errorf("Filters = %+v, want %+v", got.Filters, want)
	}
}

func TestExtract_RecommendInMarkdownFence(t *testing.T) {
	mock := &mockEngine{
		response: "```json\n{\"action\": \"recommend\", \"filters\": {\"mood\": \"serene\"}}\n```",
	}
	e := NewExtractor(mock, testAvailable(), 0)

	got := e.Extract(context.Background(), transcript("something calming"))

	if got.Action != ActionRecommend {
		t.Fatalf("Action = %q, want recommend", got.Action)
	}
	if got.Filters.Mood != "serene" {
		t.Errorf("Mood = %q, want serene", got.Filters.Mood)
	}
}

func TestExtract_CompactMarker(t *testing.T) {
	mock := &mockEngine{
		response: `{"action":"recommend","filters":{"max_price":200000}}`,
	}
	e := NewExtractor(mock, testAvailable(), 0)

	got := e.Extract(context.Background(), transcript("under 2 lakhs"))

	if got.Action != ActionRecommend {
		t.Fatalf("Action = %q, want recommend with compact JSON", got.Action)
	}
	if got.Filters.MaxPrice != 200000 {
		t.Errorf("MaxPrice = %d, want 200000", got.Filters.MaxPrice)
	}
}

func TestExtract_MalformedRecommendFallsBackToContinue(t *testing.T) {
	mock := &mockEngine{
		response: `{"action": "recommend", "filters": {{{not json`,
	}
	e := NewExtractor(mock, testAvailable(), 0)

	got := e.Extract(context.Background(), transcript("hello"))

	if got.Action != ActionContinue {
		t.Fatalf("Action = %q, want continue on parse failure", got.Action)
	}
	if got.Reply != mock.response {
		t.Errorf("Reply = %q, want raw model output", got.Reply)
	}
}

func TestExtract_UpstreamErrorNeverPropagates(t *testing.T) {
	mock := &mockEngine{err: fmt.Errorf("connection refused")}
	e := NewExtractor(mock, testAvailable(), 0)

	got := e.Extract(context.Background(), transcript("hello"))

	if got.Action != ActionContinue {
		t.Fatalf("Action = %q, want continue on upstream error", got.Action)
	}
	if got.Reply == "" {
		t.Error("Reply must be a non-empty apologetic message")
	}
}

func TestExtract_Timeout(t *testing.T) {
	mock := &mockEngine{response: "too late", delay: 5 * time.Second}
	e := NewExtractor(mock, testAvailable(), 100*time.Millisecond)

	start := time.Now()
	got := e.Extract(context.Background(), transcript("hello"))
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("Extract took %v, want well under 1s", elapsed)
	}
	if got.Action != ActionContinue || got.Reply == "" {
		t.Errorf("got %+v, want continue with non-empty reply", got)
	}
}
