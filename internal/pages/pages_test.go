package pages

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/fantasybroadcast/colorbook/internal/models"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
}

func TestDiscoverOrdersByNumericSuffix(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "fbnp_10.png", "fbnp_2.png", "fbnp_1.png", "fbnp_cover.png", "notes.txt", "fbnp_3.JPG", "other_4.png")

	refs, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []int{1, 2, 3, 10}
	if len(refs) != len(want) {
		t.Fatalf("Expected %d pages, got %d: %+v", len(want), len(refs), refs)
	}
	for i, idx := range want {
		if refs[i].Index != idx {
			t.Errorf("Position %d: expected index %d, got %d", i, idx, refs[i].Index)
		}
	}
	if refs[3].Name() != "fbnp_10.png" {
		t.Errorf("Expected fbnp_10.png last, got %s", refs[3].Name())
	}
}

func TestDiscoverNotFound(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "fbnp_cover.png")

	if _, err := Discover(dir); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found for empty set, got %v", err)
	}
	if _, err := Discover(filepath.Join(dir, "missing")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found for missing dir, got %v", err)
	}
}

func makeRefs(n int) []models.PageRef {
	refs := make([]models.PageRef, n)
	for i := range refs {
		refs[i] = models.PageRef{Index: i + 1, Path: filepath.Join("dir", "fbnp_"+string(rune('a'+i))+".png")}
	}
	return refs
}

func TestSelectPreviewsCount(t *testing.T) {
	tests := []struct {
		name      string
		available int
		max       int
		want      int
	}{
		{name: "four of ten", available: 10, max: 4, want: 4},
		{name: "floor of two", available: 10, max: 1, want: 2},
		{name: "single page", available: 1, max: 5, want: 1},
		{name: "capped by head window", available: 10, max: 9, want: 6},
		{name: "fewer than max", available: 3, max: 5, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(1, 2))
			got := SelectPreviews(rng, makeRefs(tt.available), tt.max)
			if len(got) != tt.want {
				t.Errorf("Expected %d previews, got %d", tt.want, len(got))
			}
		})
	}
}

func TestSelectPreviewsStaysInHead(t *testing.T) {
	refs := makeRefs(20)
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 50; i++ {
		for _, ref := range SelectPreviews(rng, refs, 5) {
			if ref.Index > headWindow {
				t.Fatalf("Selected page %d outside the head window", ref.Index)
			}
		}
	}
}

func TestSelectPreviewsSeeded(t *testing.T) {
	refs := makeRefs(10)
	a := SelectPreviews(rand.New(rand.NewPCG(42, 42)), refs, 4)
	b := SelectPreviews(rand.New(rand.NewPCG(42, 42)), refs, 4)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Same seed produced different selections: %v vs %v", a, b)
		}
	}
}

func TestSelectPreviewsDoesNotMutateInput(t *testing.T) {
	refs := makeRefs(6)
	SelectPreviews(rand.New(rand.NewPCG(3, 9)), refs, 5)
	for i, ref := range refs {
		if ref.Index != i+1 {
			t.Fatalf("Input reordered at %d: %+v", i, refs)
		}
	}
}

func TestClampPreviews(t *testing.T) {
	for in, want := range map[int]int{-3: 2, 1: 2, 2: 2, 4: 4, 5: 5, 9: 5} {
		if got := ClampPreviews(in); got != want {
			t.Errorf("ClampPreviews(%d) = %d, want %d", in, got, want)
		}
	}
}
