package search

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Scorer rates the similarity of two strings from 0 (unrelated) to 100 (equal).
type Scorer interface {
	Score(a, b string) int
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(a, b string) int

// Score implements Scorer.
func (f ScorerFunc) Score(a, b string) int { return f(a, b) }

const (
	unbaseScale      = 0.95
	partialScale     = 0.90
	longPartialScale = 0.60
)

// WeightedRatio is the classic weighted-ratio scorer.
//
// Both inputs are lowercased and reduced to space-separated alphanumeric
// tokens. The score is the best of:
//   - the plain indel ratio
//   - token-sort and token-set ratios, scaled 0.95
//   - when one string is at least 1.5x longer, the partial (best-window)
//     variants, scaled a further 0.9 (0.6 at 8x)
type WeightedRatio struct{}

// Score implements Scorer.
func (WeightedRatio) Score(a, b string) int {
	p1, p2 := fullProcess(a), fullProcess(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	r1, r2 := []rune(p1), []rune(p2)
	base := float64(ratio(r1, r2))

	long, short := float64(len(r1)), float64(len(r2))
	if short > long {
		long, short = short, long
	}
	lenRatio := long / short

	if lenRatio < 1.5 {
		tsor := float64(tokenSortRatio(p1, p2, false)) * unbaseScale
		tser := float64(tokenSetRatio(p1, p2, false)) * unbaseScale
		return int(math.Round(max(base, tsor, tser)))
	}

	scale := partialScale
	if lenRatio > 8 {
		scale = longPartialScale
	}
	partial := float64(partialRatio(r1, r2)) * scale
	ptsor := float64(tokenSortRatio(p1, p2, true)) * unbaseScale * scale
	ptser := float64(tokenSetRatio(p1, p2, true)) * unbaseScale * scale
	return int(math.Round(max(base, partial, ptsor, ptser)))
}

// fullProcess lowercases s and keeps only letters and digits, joining runs
// with a single space.
func fullProcess(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	gap := false
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			gap = true
			continue
		}
		if gap && b.Len() > 0 {
			b.WriteByte(' ')
		}
		gap = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ratio is the indel similarity 2*LCS/(len(a)+len(b)) as a rounded percentage.
func ratio(a, b []rune) int {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return int(math.Round(200 * float64(lcs(a, b)) / float64(total)))
}

// lcs returns the length of the longest common subsequence.
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// partialRatio is the best ratio of the shorter string against any
// equal-length window of the longer one.
func partialRatio(a, b []rune) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return 0
	}
	if strings.Contains(string(b), string(a)) {
		return 100
	}

	// Only windows aligned on a shared rune can beat the others.
	last := len(b) - len(a)
	tried := make([]bool, last+1)
	best := 0
	for i, ra := range a {
		for j, rb := range b {
			if ra != rb {
				continue
			}
			start := min(max(j-i, 0), last)
			if tried[start] {
				continue
			}
			tried[start] = true
			if r := ratio(a, b[start:start+len(a)]); r > best {
				best = r
			}
		}
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSortRatio(a, b string, partial bool) int {
	return pick(partial)([]rune(sortedTokens(a)), []rune(sortedTokens(b)))
}

func tokenSetRatio(a, b string, partial bool) int {
	set1 := tokenSet(a)
	set2 := tokenSet(b)

	var sect, diff1, diff2 []string
	for t := range set1 {
		if set2[t] {
			sect = append(sect, t)
		} else {
			diff1 = append(diff1, t)
		}
	}
	for t := range set2 {
		if !set1[t] {
			diff2 = append(diff2, t)
		}
	}
	sort.Strings(sect)
	sort.Strings(diff1)
	sort.Strings(diff2)

	t0 := strings.Join(sect, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(diff1, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(diff2, " "))

	score := pick(partial)
	r0, r1, r2 := []rune(t0), []rune(t1), []rune(t2)
	best := score(r1, r2)
	if len(r0) > 0 {
		best = max(best, score(r0, r1), score(r0, r2))
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

func pick(partial bool) func(a, b []rune) int {
	if partial {
		return partialRatio
	}
	return ratio
}
