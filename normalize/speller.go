package normalize

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Speller corrects a single word. Implementations return the word unchanged
// when no correction is available.
type Speller interface {
	Correct(word string) string
}

// SpellerFunc adapts an ordinary function to the Speller interface.
type SpellerFunc func(word string) string

// Correct calls f(word).
func (f SpellerFunc) Correct(word string) string {
	return f(word)
}

//go:embed dictionary.txt
var defaultDictionaryData string

var (
	defaultDictionaryOnce sync.Once
	defaultDictionary     *Dictionary
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Dictionary is a frequency-weighted spelling corrector. A word is replaced
// by the most frequent dictionary word within edit distance one, or failing
// that, two. Edits are deletions, transpositions, replacements and
// insertions of a single letter.
//
// Only purely alphabetic tokens of at least four letters are considered.
// Shorter tokens (units such as pg or fL, analytes such as Hb or Na), tokens
// containing digits or symbols (values, units, ranges) and all-uppercase
// tokens (acronyms such as WBC or ESR) are returned unchanged. A token more
// than two letters longer than the longest dictionary word cannot be
// corrected and is returned without searching. Lookups are case-insensitive;
// a capitalized input yields a capitalized correction.
type Dictionary struct {
	freq   map[string]int
	maxLen int
}

// minCorrectableLen is the shortest token Correct will change.
const minCorrectableLen = 4

// maxEditDistance bounds how far a correction may be from its input.
const maxEditDistance = 2

// NewDictionary builds a dictionary from word frequencies. Words are case
// folded; entries with non-positive counts are ignored.
func NewDictionary(freq map[string]int) *Dictionary {
	d := &Dictionary{freq: make(map[string]int, len(freq))}
	for w, n := range freq {
		if n <= 0 {
			continue
		}
		f := fold(w)
		d.freq[f] += n
		if l := utf8.RuneCountInString(f); l > d.maxLen {
			d.maxLen = l
		}
	}
	return d
}

// LoadDictionary reads a dictionary in "word [count]" line format. Blank
// lines and lines starting with '#' are skipped; a missing count means 1.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	freq := make(map[string]int)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		count := 1
		if len(fields) > 2 {
			return nil, fmt.Errorf("dictionary line %d: expected \"word [count]\", got %q", line, text)
		}
		if len(fields) == 2 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("dictionary line %d: invalid count %q: %w", line, fields[1], err)
			}
			count = n
		}
		freq[fields[0]] += count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return NewDictionary(freq), nil
}

// DefaultDictionary returns the embedded English and laboratory vocabulary.
// The returned dictionary is shared and must not be modified.
func DefaultDictionary() *Dictionary {
	defaultDictionaryOnce.Do(func() {
		d, err := LoadDictionary(strings.NewReader(defaultDictionaryData))
		if err != nil {
			panic(fmt.Sprintf("normalize: embedded dictionary: %v", err))
		}
		defaultDictionary = d
	})
	return defaultDictionary
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	return len(d.freq)
}

// Known reports whether word is in the dictionary, ignoring case.
func (d *Dictionary) Known(word string) bool {
	_, ok := d.freq[fold(word)]
	return ok
}

// Frequency returns the count recorded for word, or 0.
func (d *Dictionary) Frequency(word string) int {
	return d.freq[fold(word)]
}

// Correct returns the most likely spelling of word.
func (d *Dictionary) Correct(word string) string {
	if !correctable(word) {
		return word
	}

	w := fold(word)
	if _, ok := d.freq[w]; ok {
		return word
	}
	if !d.reachable(w) {
		return word
	}

	e1 := edits1(w)
	best := d.best(e1)
	if best == "" {
		best = d.bestEdits2(e1)
	}
	if best == "" {
		return word
	}
	return matchCase(word, best)
}

// reachable reports whether any dictionary word can lie within
// maxEditDistance of w.
func (d *Dictionary) reachable(w string) bool {
	return utf8.RuneCountInString(w) <= d.maxLen+maxEditDistance
}

// Candidates returns the known words at the smallest edit distance from
// word (0, 1 or 2), most frequent first.
func (d *Dictionary) Candidates(word string) []string {
	w := fold(word)
	if _, ok := d.freq[w]; ok {
		return []string{w}
	}
	if !d.reachable(w) {
		return nil
	}
	e1 := edits1(w)
	known := d.known(e1)
	if len(known) == 0 {
		seen := make(map[string]struct{})
		for e := range e1 {
			for _, c := range d.known(edits1(e)) {
				if _, ok := seen[c]; !ok {
					seen[c] = struct{}{}
					known = append(known, c)
				}
			}
		}
	}
	if len(known) == 0 {
		return nil
	}

	sort.Slice(known, func(i, j int) bool {
		fi, fj := d.freq[known[i]], d.freq[known[j]]
		if fi != fj {
			return fi > fj
		}
		return known[i] < known[j]
	})
	return known
}

// known returns the members of set that are dictionary words.
func (d *Dictionary) known(set map[string]struct{}) []string {
	var out []string
	for c := range set {
		if _, ok := d.freq[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// best picks the highest-frequency known word from set, breaking ties
// lexicographically so results are deterministic.
func (d *Dictionary) best(set map[string]struct{}) string {
	best := ""
	bestFreq := 0
	for c := range set {
		f, ok := d.freq[c]
		if !ok {
			continue
		}
		if f > bestFreq || (f == bestFreq && c < best) {
			best = c
			bestFreq = f
		}
	}
	return best
}

// bestEdits2 is best over the strings one edit away from e1. The second
// level is scanned word by word rather than materialized as a set.
func (d *Dictionary) bestEdits2(e1 map[string]struct{}) string {
	best := ""
	bestFreq := 0
	for e := range e1 {
		if c := d.best(edits1(e)); c != "" {
			if f := d.freq[c]; f > bestFreq || (f == bestFreq && c < best) {
				best = c
				bestFreq = f
			}
		}
	}
	return best
}

// correctable reports whether word is a candidate for spelling correction.
func correctable(word string) bool {
	if utf8.RuneCountInString(word) < minCorrectableLen {
		return false
	}
	upper := true
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsUpper(r) {
			upper = false
		}
	}
	return !upper
}

// edits1 returns all strings one edit away from word.
func edits1(word string) map[string]struct{} {
	out := make(map[string]struct{}, 54*len(word)+25)
	for i := 0; i <= len(word); i++ {
		left, right := word[:i], word[i:]
		if len(right) > 0 {
			out[left+right[1:]] = struct{}{}
		}
		if len(right) > 1 {
			out[left+string(right[1])+string(right[0])+right[2:]] = struct{}{}
		}
		for _, c := range alphabet {
			if len(right) > 0 {
				out[left+string(c)+right[1:]] = struct{}{}
			}
			out[left+string(c)+right] = struct{}{}
		}
	}
	return out
}

// fold returns the case-folded form of s. A Caser is stateful, so a new one
// is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// matchCase capitalizes word if model is capitalized.
func matchCase(model, word string) string {
	first, _ := utf8.DecodeRuneInString(model)
	if unicode.IsUpper(first) {
		return cases.Title(language.Und).String(word)
	}
	return word
}
