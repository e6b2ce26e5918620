package comparison

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// descriptionKey normalizes a product description for alignment
func descriptionKey(description string) string {
	return stripPunctuation(description)
}

// similarity scores two description keys in [0, 1] as the better of
// token overlap (Dice coefficient) and normalized edit distance
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	dice := tokenDice(a, b)

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	edit := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)

	if dice > edit {
		return dice
	}
	return edit
}

// tokenDice is 2*|A∩B| / (|A|+|B|) over word multisets
func tokenDice(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta)+len(tb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ta))
	for _, t := range ta {
		counts[t]++
	}
	common := 0
	for _, t := range tb {
		if counts[t] > 0 {
			counts[t]--
			common++
		}
	}
	return 2 * float64(common) / float64(len(ta)+len(tb))
}
