package pages

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/fantasybroadcast/colorbook/internal/models"
)

// Preview selection bounds
const (
	MinPreviews = 2
	MaxPreviews = 5
	// headWindow is how many of the earliest pages take part in the shuffle
	headWindow = 6
)

var pagePattern = regexp.MustCompile(`^` + regexp.QuoteMeta(models.PagePrefix) + `(\d+)\.(?i:png|jpe?g)$`)

// Discover lists the interior page images in dir ordered by their numeric suffix
func Discover(dir string) ([]models.PageRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: title directory %s", models.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read title directory: %w", err)
	}

	var refs []models.PageRef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pagePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			slog.Debug("Skipping page with unparseable index", "file", entry.Name(), "err", err)
			continue
		}
		refs = append(refs, models.PageRef{Index: idx, Path: filepath.Join(dir, entry.Name())})
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no %s*.png found in %s", models.ErrNotFound, models.PagePrefix, dir)
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Index != refs[j].Index {
			return refs[i].Index < refs[j].Index
		}
		return refs[i].Path < refs[j].Path
	})

	slog.Debug("Discovered interior pages", "dir", dir, "count", len(refs))
	return refs, nil
}

// ClampPreviews bounds a requested preview count to [MinPreviews, MaxPreviews]
func ClampPreviews(n int) int {
	return max(MinPreviews, min(n, MaxPreviews))
}

// SelectPreviews picks the pages shown as preview sheets on the cover.
// It keeps at least two (when available) and at most maxImages, drawn from a
// shuffled window of the earliest pages.
func SelectPreviews(rng *rand.Rand, refs []models.PageRef, maxImages int) []models.PageRef {
	if len(refs) == 0 {
		return nil
	}
	k := max(MinPreviews, min(maxImages, len(refs)))

	head := make([]models.PageRef, min(headWindow, len(refs)))
	copy(head, refs)
	rng.Shuffle(len(head), func(i, j int) {
		head[i], head[j] = head[j], head[i]
	})

	if k > len(head) {
		k = len(head)
	}
	return head[:k]
}
