package services

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/foxxcyber/meal-cart/internal/models"
)

// DefaultDuplicateThreshold is the similarity above which two labels are
// considered the same article
const DefaultDuplicateThreshold = 0.85

var folder = cases.Fold()

// Normalize casefolds s, strips diacritics and collapses whitespace
func Normalize(s string) string {
	decomposed := norm.NFD.String(folder.String(s))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(norm.NFC.String(b.String())), " ")
}

// Singular folds plural word endings so "tomates" and "tomate" compare equal.
// It expects normalized input.
func Singular(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = singularWord(w)
	}
	return strings.Join(words, " ")
}

func singularWord(w string) string {
	if len([]rune(w)) <= 3 {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s"), strings.HasSuffix(w, "x"):
		return w[:len(w)-1]
	}
	return w
}

// Similarity returns a 0.0-1.0 score between two labels using Levenshtein
// distance over their normalized forms: 1.0 - distance/max(len(a), len(b)).
func Similarity(a, b string) float64 {
	return similarity(Normalize(a), Normalize(b))
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// IngredientMatcher detects ingredient labels that duplicate an existing article
type IngredientMatcher struct {
	threshold float64
}

// NewIngredientMatcher creates a matcher. A threshold outside (0, 1] falls back
// to DefaultDuplicateThreshold.
func NewIngredientMatcher(threshold float64) *IngredientMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultDuplicateThreshold
	}
	return &IngredientMatcher{threshold: threshold}
}

// Key returns the comparison key of a label: normalized and singularized
func (m *IngredientMatcher) Key(label string) string {
	return Singular(Normalize(label))
}

// FindDuplicate returns the candidate that label most likely duplicates along
// with the match confidence. ok is false when nothing reaches the threshold.
func (m *IngredientMatcher) FindDuplicate(label string, candidates []models.Ingredient) (match *models.Ingredient, confidence float64, ok bool) {
	key := m.Key(label)
	if key == "" {
		return nil, 0, false
	}

	best := -1
	bestScore := -1.0
	for i := range candidates {
		candidate := m.Key(candidates[i].Label)
		if candidate == key {
			return &candidates[i], 1.0, true
		}
		if score := similarity(key, candidate); score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 || bestScore < m.threshold {
		return nil, 0, false
	}
	return &candidates[best], bestScore, true
}

// GetMatchConfidenceLevel returns a human-readable confidence level
func GetMatchConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.95:
		return "high"
	case confidence >= 0.85:
		return "medium"
	case confidence >= 0.5:
		return "low"
	default:
		return "none"
	}
}
