package intent

import (
	"strings"
	"testing"
)

func TestSystemPrompt_IncludesCatalogVocabulary(t *testing.T) {
	got := SystemPrompt(testAvailable())

	for _, want := range []string{
		"landscape, portrait",
		"blue, green",
		"serene",
		"₹2.5 lakhs to ₹4.9 lakhs",
		"max_price: 700000",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_SerializesTranscript(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "I like Landscape"},
		{Role: RoleAssistant, Content: "Great choice! What colors would you like?"},
		{Role: RoleUser, Content: "Blue"},
	}

	got := BuildPrompt(testAvailable(), msgs)

	for _, want := range []string{
		"User: I like Landscape",
		"Assistant: Great choice! What colors would you like?",
		"User: Blue",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(got, "Assistant:") {
		t.Error("prompt must end with the assistant cue")
	}
	if !strings.HasPrefix(got, "You are an art gallery assistant") {
		t.Error("prompt must start with the system instruction")
	}
}
