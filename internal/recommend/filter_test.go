package recommend

import (
	"reflect"
	"testing"

	"github.com/rvachev/artel/internal/catalog"
)

func testCatalog() []catalog.Artwork {
	return []catalog.Artwork{
		{ID: "a1", Title: "Valley Morning", Price: 200000,
			Styles: []string{"landscape"}, Colors: []string{"green", "blue"}, Moods: []string{"serene"}},
		{ID: "a2", Title: "The Merchant", Price: 300000,
			Styles: []string{"portrait"}, Colors: []string{"brown", "black"}, Moods: []string{"contemplative"}},
		{ID: "a3", Title: "Storm over the Ridge", Price: 600000,
			Styles: []string{"landscape"}, Colors: []string{"gray", "blue"}, Moods: []string{"dramatic"}},
	}
}

func ids(artworks []catalog.Artwork) []string {
	out := make([]string, len(artworks))
	for i, a := range artworks {
		out[i] = a.ID
	}
	return out
}

func TestFilter_StyleSubstring(t *testing.T) {
	// "land" must match "landscape" — substring, not exact match.
	got := Filter(testCatalog(), Filters{Style: "land"})
	if want := []string{"a1", "a3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Filter(style=land) = %v, want %v (catalog order)", ids(got), want)
	}
}

func TestFilter_StyleCaseInsensitive(t *testing.T) {
	got := Filter(testCatalog(), Filters{Style: "Landscape"})
	if len(got) != 2 {
		t.Errorf("Filter(style=Landscape) returned %d records, want 2", len(got))
	}
}

func TestFilter_ColorsAnyExactMatch(t *testing.T) {
	got := Filter(testCatalog(), Filters{Colors: []string{"Blue", "red"}})
	if want := []string{"a1", "a3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Filter(colors) = %v, want %v", ids(got), want)
	}

	// Colors never substring-match: "blu" is not a catalog color.
	if got := Filter(testCatalog(), Filters{Colors: []string{"blu"}}); len(got) != 0 {
		t.Errorf("Filter(colors=blu) = %v, want empty", ids(got))
	}
}

func TestFilter_MoodSubstring(t *testing.T) {
	got := Filter(testCatalog(), Filters{Mood: "drama"})
	if want := []string{"a3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Filter(mood=drama) = %v, want %v", ids(got), want)
	}
}

func TestFilter_PriceBoundsInclusive(t *testing.T) {
	got := Filter(testCatalog(), Filters{MaxPrice: 300000})
	if want := []string{"a1", "a2"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Filter(max=300000) = %v, want %v", ids(got), want)
	}

	got = Filter(testCatalog(), Filters{MinPrice: 300000})
	if want := []string{"a2", "a3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Filter(min=300000) = %v, want %v", ids(got), want)
	}
}

func TestFilter_EmptySpecMatchesAll(t *testing.T) {
	cat := testCatalog()
	got := Filter(cat, Filters{})
	if !reflect.DeepEqual(ids(got), ids(cat)) {
		t.Errorf("Filter(empty) = %v, want all of %v", ids(got), ids(cat))
	}
}

func TestFilter_PredicatesAreIndependent(t *testing.T) {
	cat := testCatalog()
	f := Filters{Style: "landscape", Colors: []string{"blue"}, MaxPrice: 500000}

	got := Filter(cat, f)
	for _, a := range got {
		if !tagSubstringMatch(a.Styles, f.Style) {
			t.Errorf("%s fails style predicate", a.ID)
		}
		if countColorMatches(a.Colors, f.Colors) == 0 {
			t.Errorf("%s fails color predicate", a.ID)
		}
		if a.Price > f.MaxPrice {
			t.Errorf("%s fails price predicate", a.ID)
		}
	}
}

func TestFilter_SubsetAndIdempotent(t *testing.T) {
	cat := testCatalog()
	f := Filters{Style: "landscape", MaxPrice: 650000}

	once := Filter(cat, f)
	if len(once) > len(cat) {
		t.Fatalf("filter output larger than input")
	}
	twice := Filter(once, f)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("filter(filter(C,S),S) = %v, want %v", ids(twice), ids(once))
	}
}

func TestFilters_Empty(t *testing.T) {
	if !(Filters{}).Empty() {
		t.Error("zero Filters should be Empty")
	}
	if (Filters{MaxPrice: 1}).Empty() {
		t.Error("Filters with MaxPrice should not be Empty")
	}
	if (Filters{Colors: []string{"red"}}).Empty() {
		t.Error("Filters with Colors should not be Empty")
	}
}
