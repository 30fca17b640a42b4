package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrLoad wraps any failure to read or validate the catalog file. A store
// that fails to load is unusable; callers must not serve recommendations.
var ErrLoad = errors.New("catalog load failed")

// Artwork is one catalog record. Records are immutable after load: the
// store hands out read-only views and never mutates or removes entries.
type Artwork struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Artist       string   `json:"artist"`
	Price        int      `json:"price"`
	Styles       []string `json:"style"`
	Colors       []string `json:"colors"`
	Moods        []string `json:"mood"`
	Medium       string   `json:"medium,omitempty"`
	Dimensions   string   `json:"dimensions,omitempty"`
	Period       string   `json:"period,omitempty"`
	Department   string   `json:"department,omitempty"`
	Culture      string   `json:"culture,omitempty"`
	ImageURL     string   `json:"image_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
}

// PriceRange is the observed catalog price span in lakhs (1 lakh = ₹100,000),
// the unit the assistant uses when talking to buyers about budget.
type PriceRange struct {
	MinLakhs float64 `json:"min_lakhs"`
	MaxLakhs float64 `json:"max_lakhs"`
}

// AvailableFilters is the derived view over the catalog: every style, color,
// and mood tag present, sorted and deduplicated, plus the price span.
type AvailableFilters struct {
	Styles     []string   `json:"styles"`
	Colors     []string   `json:"colors"`
	Moods      []string   `json:"moods"`
	PriceRange PriceRange `json:"price_range"`
}

// Store holds the in-memory catalog, loaded once per process lifetime.
type Store struct {
	artworks []Artwork
	filters  AvailableFilters
}

// Load reads and validates the catalog JSON file. Either every record loads
// or the whole load fails — there is no partial catalog.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrLoad, path, err)
	}

	var artworks []Artwork
	if err := json.Unmarshal(data, &artworks); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrLoad, path, err)
	}
	if len(artworks) == 0 {
		return nil, fmt.Errorf("%w: %s contains no artworks", ErrLoad, path)
	}

	for i, a := range artworks {
		if err := validate(a); err != nil {
			return nil, fmt.Errorf("%w: record %d (%q): %v", ErrLoad, i, a.ID, err)
		}
	}

	return &Store{
		artworks: artworks,
		filters:  deriveFilters(artworks),
	}, nil
}

func validate(a Artwork) error {
	switch {
	case a.ID == "":
		return errors.New("missing id")
	case a.Title == "":
		return errors.New("missing title")
	case a.Price < 0:
		return fmt.Errorf("negative price %d", a.Price)
	case len(a.Styles) == 0:
		return errors.New("no style tags")
	case len(a.Colors) == 0:
		return errors.New("no color tags")
	case len(a.Moods) == 0:
		return errors.New("no mood tags")
	}
	return nil
}

// List returns the full catalog in load order. Callers must treat the
// returned slice as read-only.
func (s *Store) List() []Artwork {
	return s.artworks
}

// Len returns the number of catalog records.
func (s *Store) Len() int {
	return len(s.artworks)
}

// AvailableFilters returns the derived filter vocabulary. Computed once at
// load; the catalog never changes at runtime.
func (s *Store) AvailableFilters() AvailableFilters {
	return s.filters
}

// MinPrice returns the price of the cheapest catalog entry.
func (s *Store) MinPrice() int {
	min := s.artworks[0].Price
	for _, a := range s.artworks[1:] {
		if a.Price < min {
			min = a.Price
		}
	}
	return min
}

func deriveFilters(artworks []Artwork) AvailableFilters {
	styles := make(map[string]struct{})
	colors := make(map[string]struct{})
	moods := make(map[string]struct{})

	minPrice, maxPrice := artworks[0].Price, artworks[0].Price
	for _, a := range artworks {
		for _, s := range a.Styles {
			styles[s] = struct{}{}
		}
		for _, c := range a.Colors {
			colors[c] = struct{}{}
		}
		for _, m := range a.Moods {
			moods[m] = struct{}{}
		}
		if a.Price < minPrice {
			minPrice = a.Price
		}
		if a.Price > maxPrice {
			maxPrice = a.Price
		}
	}

	return AvailableFilters{
		Styles: sortedKeys(styles),
		Colors: sortedKeys(colors),
		Moods:  sortedKeys(moods),
		PriceRange: PriceRange{
			MinLakhs: float64(minPrice) / 100000,
			MaxLakhs: float64(maxPrice) / 100000,
		},
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
