// Package trigram matches misspelled names, such as attribute and command
// names typed at a prompt, by the trigrams they share.
package trigram

import (
	"strings"
	"unicode"

	"dasa.cc/pcv/set"
)

// Index of names; zero value is valid.
type Index struct {
	keys  set.Slice[string]   // sorted trigrams
	names []set.Slice[string] // names containing keys[i]
}

// New returns index of names.
func New(names ...string) *Index {
	var x Index
	x.Add(names...)
	return &x
}

// Add indexes every trigram of each name.
func (x *Index) Add(names ...string) {
	for _, s := range names {
		for _, t := range Parse(s) {
			i, ok := x.keys.Insert(t)
			if ok {
				x.names = append(x.names, nil)
				copy(x.names[i+1:], x.names[i:])
				x.names[i] = nil
			}
			x.names[i].Insert(s)
		}
	}
}

// Match returns names sharing at least min of the trigrams of s, in name
// order, with their unit scores.
func (x *Index) Match(s string, min float64) ([]string, []float64) {
	var (
		out    set.Slice[string]
		scores []float64
	)
	q := Parse(s)
	for _, t := range q {
		i, ok := x.search(t)
		if !ok {
			continue
		}
		for _, name := range x.names[i] {
			j, added := out.Insert(name)
			if added {
				scores = append(scores, 0)
				copy(scores[j+1:], scores[j:])
				scores[j] = 0
			}
			scores[j]++
		}
	}

	names, units := out[:0], scores[:0]
	for i, name := range out {
		if w := scores[i] / float64(len(q)); min <= w {
			names, units = append(names, name), append(units, w)
		}
	}
	return names, units
}

// Best returns the highest scoring name meeting min; ties go to the first
// name in order.
func (x *Index) Best(s string, min float64) (string, bool) {
	names, units := x.Match(s, min)
	best := -1
	for i, w := range units {
		if best < 0 || w > units[best] {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return names[best], true
}

func (x *Index) search(t string) (int, bool) {
	lo, hi := 0, len(x.keys)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		if x.keys[m] < t {
			lo = m + 1
		} else {
			hi = m
		}
	}
	return lo, lo < len(x.keys) && x.keys[lo] == t
}

// Parse returns sorted trigrams of the lower case words of s. Words are split
// on anything other than letters and digits and padded with zero bytes.
func Parse(s string) []string {
	var out set.Slice[string]
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		w = "\x00\x00" + w + "\x00"
		for i := 0; i <= len(w)-3; i++ {
			out.Insert(w[i : i+3])
		}
	}
	return out
}
