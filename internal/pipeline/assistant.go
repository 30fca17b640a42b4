package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rvachev/artel/internal/catalog"
	"github.com/rvachev/artel/internal/composer"
	"github.com/rvachev/artel/internal/intent"
	"github.com/rvachev/artel/internal/recommend"
	"github.com/rvachev/artel/internal/storage"
)

const defaultLimit = 5

// Response type markers on the chat payload.
const (
	TypeConversation   = "conversation"
	TypeRecommendation = "recommendation"
)

// ChatResult is the outcome of one chat turn, mirrored onto the wire as
// {type, message, artworks?, filters?}.
type ChatResult struct {
	Type     string             `json:"type"`
	Message  string             `json:"message"`
	Artworks []catalog.Artwork  `json:"artworks,omitempty"`
	Filters  *recommend.Filters `json:"filters,omitempty"`
}

// Assistant orchestrates one stateless chat turn: intent extraction, then —
// when the turn recommends — filtering, ranking, and message composition.
type Assistant struct {
	store     *catalog.Store
	extractor *intent.Extractor
	comp      *composer.Composer
	log       *storage.Store // optional; nil disables the interaction log
	limit     int
}

// New creates an Assistant. limit caps the recommendation shortlist
// (default 5 if <= 0). log may be nil.
func New(store *catalog.Store, extractor *intent.Extractor, comp *composer.Composer, log *storage.Store, limit int) *Assistant {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Assistant{store: store, extractor: extractor, comp: comp, log: log, limit: limit}
}

// Chat processes one turn for the given transcript. It never fails: every
// internal failure has already been converted into a conversational reply
// by the time control returns here.
func (a *Assistant) Chat(ctx context.Context, messages []intent.Message) ChatResult {
	start := time.Now()

	extracted := a.extractor.Extract(ctx, messages)

	var result ChatResult
	if extracted.Action == intent.ActionRecommend {
		result = a.recommendTurn(extracted.Filters)
	} else {
		result = ChatResult{Type: TypeConversation, Message: extracted.Reply}
	}

	a.logInteraction(messages, result, time.Since(start))
	return result
}

// recommendTurn runs the filter and ranking engines. The composer sees the
// pre-fallback filtered set so it can explain an empty match, while the
// payload carries the post-fallback shortlist — the user always gets
// something to look at.
func (a *Assistant) recommendTurn(f recommend.Filters) ChatResult {
	artworks := a.store.List()

	filtered := recommend.Filter(artworks, f)
	ranked := recommend.Recommend(artworks, f, a.limit)
	message := a.comp.Compose(filtered, f)

	filters := f
	return ChatResult{
		Type:     TypeRecommendation,
		Message:  message,
		Artworks: ranked,
		Filters:  &filters,
	}
}

// logInteraction records the turn for diagnostics. Best effort: a logging
// failure must never affect the chat response.
func (a *Assistant) logInteraction(messages []intent.Message, result ChatResult, took time.Duration) {
	if a.log == nil {
		return
	}

	ix := storage.Interaction{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		UserMessage:  lastUserMessage(messages),
		ResponseType: result.Type,
		FiltersJSON:  "{}",
		ArtworkIDs:   "[]",
		DurationMs:   took.Milliseconds(),
	}
	if result.Filters != nil {
		if b, err := json.Marshal(result.Filters); err == nil {
			ix.FiltersJSON = string(b)
		}
	}
	if len(result.Artworks) > 0 {
		ids := make([]string, len(result.Artworks))
		for i, art := range result.Artworks {
			ids[i] = art.ID
		}
		if b, err := json.Marshal(ids); err == nil {
			ix.ArtworkIDs = string(b)
		}
	}

	if err := a.log.SaveInteraction(ix); err != nil {
		slog.Warn("failed to log interaction", "error", err)
	}
}

func lastUserMessage(messages []intent.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == intent.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
