// Package catalog holds the fixed list of exercises hf knows about and
// resolves free-form user input against it.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Exercise is a catalog entry: a display name and the media file that shows
// how to perform it.
type Exercise struct {
	Name  string `json:"name"`
	Video string `json:"video"`
}

// Catalog names.
const (
	Squat     = "Squat"
	StepUp    = "Step Up"
	Burpee    = "Burpee"
	SunSalute = "Sun Salute"
)

var exercises = []Exercise{
	{Name: Squat, Video: "squat"},
	{Name: StepUp, Video: "step-up"},
	{Name: Burpee, Video: "burpee"},
	{Name: SunSalute, Video: "sun-salute"},
}

// Exercises returns the catalog in display order.
func Exercises() []Exercise {
	out := make([]Exercise, len(exercises))
	copy(out, exercises)
	return out
}

// Names returns the catalog exercise names in display order.
func Names() []string {
	names := make([]string, len(exercises))
	for i, e := range exercises {
		names[i] = e.Name
	}
	return names
}

// Lookup finds a catalog exercise by name, ignoring case and separators.
func Lookup(name string) (Exercise, bool) {
	norm := normalize(name)
	for _, e := range exercises {
		if normalize(e.Name) == norm {
			return e, true
		}
	}
	return Exercise{}, false
}

// Resolve returns the canonical catalog name for name. Unknown names produce
// an error that lists the closest catalog matches.
func Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("exercise name must be non-empty")
	}
	if e, ok := Lookup(name); ok {
		return e.Name, nil
	}
	if sugg := Suggest(name); len(sugg) > 0 {
		return "", fmt.Errorf("unknown exercise %q; did you mean %q?", name, sugg[0].Name)
	}
	return "", fmt.Errorf("unknown exercise %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Suggestion pairs a catalog name with its similarity score (0-1, higher is better).
type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// DefaultThreshold is the minimum similarity score for a suggestion to be returned.
const DefaultThreshold = 0.5

// Suggest returns catalog names similar to name, best first.
func Suggest(name string) []Suggestion {
	return SuggestN(name, Names(), 0, DefaultThreshold)
}

// SuggestN returns up to topN names from known similar to name, with score >= threshold.
// topN <= 0 means no limit.
func SuggestN(name string, known []string, topN int, threshold float64) []Suggestion {
	if name == "" || len(known) == 0 {
		return nil
	}

	normName := normalize(name)
	var results []Suggestion
	for _, k := range known {
		score := similarity(normName, normalize(k))
		if score >= threshold {
			results = append(results, Suggestion{Name: k, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}

// similarity combines normalized Levenshtein distance with a small bonus for
// a shared prefix, which is how people usually abbreviate exercise names.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	lev := 1.0 - float64(dist)/float64(maxLen)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	score := lev + 0.1*float64(prefix)/float64(maxLen)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// normalize lowercases s and treats '-', '_' and runs of spaces as a single
// space, so "step-up", "Step_Up" and "step  up" compare equal.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
