package ml

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// UserEncoder one-hot encodes user ids. A user unseen at fit time encodes to
// the all-zero block, the standard one-hot behavior for unknown categories.
type UserEncoder struct {
	Index map[string]int
}

func fitUserEncoder(records []FeatureRecord) *UserEncoder {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.UserID]; ok {
			continue
		}
		seen[rec.UserID] = struct{}{}
		ids = append(ids, rec.UserID)
	}
	sort.Strings(ids)

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return &UserEncoder{Index: index}
}

func (e *UserEncoder) width() int {
	return len(e.Index)
}

// encode writes the one-hot block into vec starting at offset.
func (e *UserEncoder) encode(userID string, vec []float64, offset int) {
	if i, ok := e.Index[userID]; ok {
		vec[offset+i] = 1
	}
}

// TextFeaturizer turns free text into an L2-normalised term-frequency vector
// over the vocabulary observed at fit time. Unknown terms are dropped.
type TextFeaturizer struct {
	Index map[string]int
}

func fitTextFeaturizer(texts []string) *TextFeaturizer {
	seen := make(map[string]struct{})
	var terms []string
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			terms = append(terms, tok)
		}
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}
	return &TextFeaturizer{Index: index}
}

func (f *TextFeaturizer) width() int {
	return len(f.Index)
}

func (f *TextFeaturizer) encode(text string, vec []float64, offset int) {
	toks := tokenize(text)
	if len(toks) == 0 {
		return
	}
	var norm float64
	for _, tok := range toks {
		if i, ok := f.Index[tok]; ok {
			vec[offset+i]++
		}
	}
	for i := offset; i < offset+f.width(); i++ {
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := offset; i < offset+f.width(); i++ {
		vec[i] /= norm
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
