package intent

import (
	"fmt"
	"strings"

	"github.com/rvachev/artel/internal/catalog"
)

// DefaultMaxPrice is the budget ceiling the model is instructed to assume
// when the buyer never states one.
const DefaultMaxPrice = 700000

const systemPromptTemplate = `You are an art gallery assistant helping buyers discover artwork through natural conversation.

Your role:
1. Ask ONE simple question at a time — never two or more questions in a single response.
2. Gradually collect: style, colors, mood, and budget.
3. Keep each question to one sentence.
4. After gathering 2-3 preferences, recommend artworks.

CONVERSATION FLOW:
- When the user mentions a STYLE: acknowledge briefly, then ask only about colors.
- When the user mentions COLORS: acknowledge briefly, then ask only about budget.
- When the user mentions a BUDGET: you have enough — recommend immediately using the JSON format below.

BUDGET EXTRACTION:
- "under N lakhs" or "under N00000" means max_price: N * 100000 (e.g. "under 3 lakhs" is max_price: 300000).
- If no budget is mentioned, use max_price: %d.

STYLE MAPPING:
- When the user says "classical" or "classic", use one of: Renaissance, Baroque, Rococo.

When asking about budget, mention our price range: "Do you have a budget in mind? (We have artworks ranging from ₹%.1f lakhs to ₹%.1f lakhs)"

Available options:
- Styles: %s
- Colors: %s
- Moods: %s
- Price range: ₹%.1f lakhs to ₹%.1f lakhs

When ready to recommend, respond with a JSON object ONLY, no additional text:
{"action": "recommend", "filters": {"style": "Landscape", "colors": ["blue", "green"], "max_price": 300000}}

Otherwise, continue the conversation naturally and ask about preferences.`

// SystemPrompt renders the fixed instruction block for the given catalog
// vocabulary. The prompt is configuration, not logic: all extraction and
// budget-mapping policy lives in this text.
func SystemPrompt(available catalog.AvailableFilters) string {
	pr := available.PriceRange
	return fmt.Sprintf(systemPromptTemplate,
		DefaultMaxPrice,
		pr.MinLakhs, pr.MaxLakhs,
		strings.Join(available.Styles, ", "),
		strings.Join(available.Colors, ", "),
		strings.Join(available.Moods, ", "),
		pr.MinLakhs, pr.MaxLakhs,
	)
}

// BuildPrompt serializes the system instruction and the full transcript into
// the single prompt string sent upstream. The trailing "Assistant:" cues the
// model to produce the next assistant turn.
func BuildPrompt(available catalog.AvailableFilters, messages []Message) string {
	var sb strings.Builder
	sb.WriteString(SystemPrompt(available))
	sb.WriteString("\n")

	for _, msg := range messages {
		role := "Assistant"
		if msg.Role == RoleUser {
			role = "User"
		}
		fmt.Fprintf(&sb, "\n%s: %s", role, msg.Content)
	}

	sb.WriteString("\n\nAssistant:")
	return sb.String()
}
