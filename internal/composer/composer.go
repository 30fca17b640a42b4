package composer

import (
	"fmt"
	"strings"

	"github.com/rvachev/artel/internal/catalog"
	"github.com/rvachev/artel/internal/recommend"
)

// relaxedCeiling substitutes for an unset max_price during the relaxation
// probe, so the probe is never constrained by price unless the buyer was.
const relaxedCeiling = 10000000

// Composer turns a filtered result set into the user-facing message. The
// detailed artwork listing is the caller's concern; the composer only
// produces the sentence accompanying it.
type Composer struct {
	store *catalog.Store
}

// New creates a Composer over the given catalog store. The store is needed
// for the relaxation probe and the price-floor check on empty results.
func New(store *catalog.Store) *Composer {
	return &Composer{store: store}
}

// Compose builds the message for one recommendation turn. artworks must be
// the set the filters actually matched, before any fallback substitution:
// an empty set here walks the relaxation ladder so the user learns why they
// are seeing substitutes instead of matches.
func (c *Composer) Compose(artworks []catalog.Artwork, f recommend.Filters) string {
	if len(artworks) > 0 {
		return fmt.Sprintf("Here are %d stunning artworks that match your preferences! Feel free to explore them below.", len(artworks))
	}
	return c.composeEmpty(f)
}

func (c *Composer) composeEmpty(f recommend.Filters) string {
	criteria := describeCriteria(f)
	if criteria == "" {
		return "I couldn't find matches. Could you tell me more about what you're looking for?"
	}

	// Probe with only style and budget retained: if dropping colors and mood
	// turns up matches, the full combination was the problem.
	relaxed := recommend.Filters{Style: f.Style, MaxPrice: f.MaxPrice}
	if relaxed.MaxPrice == 0 {
		relaxed.MaxPrice = relaxedCeiling
	}
	if len(recommend.Filter(c.store.List(), relaxed)) > 0 {
		return fmt.Sprintf("I couldn't find artworks with all your preferences (%s). Would you like to see artworks that match some of your criteria, or would you like to adjust your preferences?", criteria)
	}

	// Nothing even relaxed: distinguish a budget below the whole catalog
	// from a genuine no-match.
	if minPrice := c.store.MinPrice(); f.MaxPrice > 0 && f.MaxPrice < minPrice {
		return fmt.Sprintf("I apologize, but we don't have artworks under ₹%s. Our most affordable piece is ₹%s. Would you like to see artworks in a different price range?", formatPrice(f.MaxPrice), formatPrice(minPrice))
	}

	return fmt.Sprintf("I couldn't find exact matches for your preferences (%s). Would you like to try different criteria or see similar artworks?", criteria)
}

func describeCriteria(f recommend.Filters) string {
	var parts []string
	if f.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("under ₹%s", formatPrice(f.MaxPrice)))
	}
	if f.Style != "" {
		parts = append(parts, f.Style+" style")
	}
	if len(f.Colors) > 0 {
		parts = append(parts, strings.Join(f.Colors, ", ")+" colors")
	}
	if f.Mood != "" {
		parts = append(parts, f.Mood+" mood")
	}
	return strings.Join(parts, " with ")
}

// formatPrice renders a minor-unit amount with thousands separators,
// e.g. 450000 -> "450,000".
func formatPrice(price int) string {
	s := fmt.Sprintf("%d", price)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
