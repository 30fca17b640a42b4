package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artworks.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validCatalog = `[
  {"id": "met-1", "title": "Hills at Dusk", "artist": "A. Verma", "price": 250000,
   "style": ["landscape", "classical"], "colors": ["green", "brown"], "mood": ["serene"],
   "image_url": "http://img/1.jpg", "thumbnail_url": "http://img/1s.jpg"},
  {"id": "met-2", "title": "Lady in Blue", "artist": "", "price": 490000,
   "style": ["portrait"], "colors": ["blue", "white"], "mood": ["elegant", "dramatic"],
   "image_url": "http://img/2.jpg", "thumbnail_url": "http://img/2s.jpg"}
]`

func TestLoad(t *testing.T) {
	store, err := Load(writeCatalog(t, validCatalog))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if got := store.List()[0].ID; got != "met-1" {
		t.Errorf("first record ID = %q, want met-1 (load order must be preserved)", got)
	}
	if store.MinPrice() != 250000 {
		t.Errorf("MinPrice() = %d, want 250000", store.MinPrice())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrLoad) {
		t.Errorf("err = %v, want ErrLoad", err)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(writeCatalog(t, `{"not": "an array"`))
	if !errors.Is(err, ErrLoad) {
		t.Errorf("err = %v, want ErrLoad", err)
	}
}

func TestLoad_EmptyCatalog(t *testing.T) {
	_, err := Load(writeCatalog(t, `[]`))
	if !errors.Is(err, ErrLoad) {
		t.Errorf("err = %v, want ErrLoad", err)
	}
}

func TestLoad_NoPartialLoad(t *testing.T) {
	// Second record is invalid (no mood tags) — the whole load must fail.
	bad := `[
	  {"id": "a", "title": "T", "price": 100, "style": ["x"], "colors": ["y"], "mood": ["z"]},
	  {"id": "b", "title": "U", "price": 200, "style": ["x"], "colors": ["y"], "mood": []}
	]`
	_, err := Load(writeCatalog(t, bad))
	if !errors.Is(err, ErrLoad) {
		t.Errorf("err = %v, want ErrLoad", err)
	}
}

func TestAvailableFilters(t *testing.T) {
	store, err := Load(writeCatalog(t, validCatalog))
	if err != nil {
		t.Fatal(err)
	}

	got := store.AvailableFilters()

	if want := []string{"classical", "landscape", "portrait"}; !reflect.DeepEqual(got.Styles, want) {
		t.Errorf("Styles = %v, want %v", got.Styles, want)
	}
	if want := []string{"blue", "brown", "green", "white"}; !reflect.DeepEqual(got.Colors, want) {
		t.Errorf("Colors = %v, want %v", got.Colors, want)
	}
	if want := []string{"dramatic", "elegant", "serene"}; !reflect.DeepEqual(got.Moods, want) {
		t.Errorf("Moods = %v, want %v", got.Moods, want)
	}
	if got.PriceRange.MinLakhs != 2.5 {
		t.Errorf("MinLakhs = %v, want 2.5", got.PriceRange.MinLakhs)
	}
	if got.PriceRange.MaxLakhs != 4.9 {
		t.Errorf("MaxLakhs = %v, want 4.9", got.PriceRange.MaxLakhs)
	}
}
