package recommend

import (
	"sort"

	"github.com/rvachev/artel/internal/catalog"
)

// Score weights. Style is the strongest signal, then colors (per matching
// color), then mood. The headroom bonus rewards pieces comfortably under
// budget over those that barely squeeze in.
const (
	styleWeight    = 3.0
	colorWeight    = 2.0
	moodWeight     = 1.5
	headroomWeight = 1.0
	headroomFactor = 0.8
)

// Score computes the relevance of one artwork against the filters. Only
// constraints present in f contribute; MinPrice never affects the score.
func Score(a catalog.Artwork, f Filters) float64 {
	score := 0.0

	if f.Style != "" && tagSubstringMatch(a.Styles, f.Style) {
		score += styleWeight
	}
	if len(f.Colors) > 0 {
		score += colorWeight * float64(countColorMatches(a.Colors, f.Colors))
	}
	if f.Mood != "" && tagSubstringMatch(a.Moods, f.Mood) {
		score += moodWeight
	}
	if f.MaxPrice > 0 && float64(a.Price) <= headroomFactor*float64(f.MaxPrice) {
		score += headroomWeight
	}

	return score
}

// Recommend returns the top limit artworks for the given filters.
//
// When the filters match nothing the user still sees something: the limit
// highest-priced catalog entries are returned unscored (ties keep catalog
// order). The composer is responsible for explaining that substitution.
// Otherwise candidates are scored and stable-sorted descending, so equal
// scores keep catalog order and repeated runs yield identical results.
func Recommend(artworks []catalog.Artwork, f Filters, limit int) []catalog.Artwork {
	if limit < 1 {
		limit = 1
	}

	filtered := Filter(artworks, f)
	if len(filtered) == 0 {
		return topPriced(artworks, limit)
	}

	scores := make([]float64, len(filtered))
	for i, a := range filtered {
		scores[i] = Score(a, f)
	}

	idx := make([]int, len(filtered))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})

	if len(idx) > limit {
		idx = idx[:limit]
	}
	out := make([]catalog.Artwork, len(idx))
	for i, j := range idx {
		out[i] = filtered[j]
	}
	return out
}

func topPriced(artworks []catalog.Artwork, limit int) []catalog.Artwork {
	out := make([]catalog.Artwork, len(artworks))
	copy(out, artworks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price > out[j].Price
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
