package recommend

import (
	"strings"

	"github.com/rvachev/artel/internal/catalog"
)

// Filters is the structured preference set extracted from one chat turn.
// Every field is optional; the zero value matches the whole catalog.
// Price bounds are inclusive minor-unit amounts; 0 means unset.
type Filters struct {
	Style    string   `json:"style,omitempty"`
	Colors   []string `json:"colors,omitempty"`
	Mood     string   `json:"mood,omitempty"`
	MaxPrice int      `json:"max_price,omitempty"`
	MinPrice int      `json:"min_price,omitempty"`
}

// Empty reports whether no constraint is set.
func (f Filters) Empty() bool {
	return f.Style == "" && len(f.Colors) == 0 && f.Mood == "" &&
		f.MaxPrice == 0 && f.MinPrice == 0
}

// Filter returns the artworks satisfying every constraint in f, in the
// original catalog order. Pure function: the input slice is never modified.
//
// Style and mood match case-insensitively as substrings of any tag, so
// "class" matches "classical". Colors match exactly (case-insensitive)
// against any of the artwork's color tags.
func Filter(artworks []catalog.Artwork, f Filters) []catalog.Artwork {
	var out []catalog.Artwork
	for _, a := range artworks {
		if matches(a, f) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a catalog.Artwork, f Filters) bool {
	if f.Style != "" && !tagSubstringMatch(a.Styles, f.Style) {
		return false
	}
	if len(f.Colors) > 0 && countColorMatches(a.Colors, f.Colors) == 0 {
		return false
	}
	if f.Mood != "" && !tagSubstringMatch(a.Moods, f.Mood) {
		return false
	}
	if f.MaxPrice > 0 && a.Price > f.MaxPrice {
		return false
	}
	if f.MinPrice > 0 && a.Price < f.MinPrice {
		return false
	}
	return true
}

// tagSubstringMatch reports whether want is a case-insensitive substring of
// at least one tag.
func tagSubstringMatch(tags []string, want string) bool {
	want = strings.ToLower(want)
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), want) {
			return true
		}
	}
	return false
}

// countColorMatches returns how many requested colors are exactly present
// (case-insensitive) among the artwork's color tags.
func countColorMatches(tags []string, wanted []string) int {
	n := 0
	for _, w := range wanted {
		w = strings.ToLower(w)
		for _, tag := range tags {
			if strings.ToLower(tag) == w {
				n++
				break
			}
		}
	}
	return n
}
