package stages

import (
	"context"
	"sort"
	"sync"

	porterstemmer "github.com/reiver/go-porterstemmer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kbukum/textforge/dictionary"
	"github.com/kbukum/textforge/stage"
	"github.com/kbukum/textforge/value"
)

// mapTokens applies fn to every token of a TextSequence and returns a new
// sequence. The input slice is never written.
func mapTokens(s stage.Stage, in value.Value, fn func(string) string) (value.Value, error) {
	tokens, ok := in.Sequence()
	if !ok {
		return value.Value{}, stage.Expect(s.Name(), in, value.KindTextSequence)
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = fn(tok)
	}
	return value.Sequence(out), nil
}

// Lowercase folds every token to lower case using Unicode rules.
type Lowercase struct {
	// cases.Caser keeps state between calls and must not be shared.
	casers sync.Pool
}

// NewLowercase creates a Lowercase stage.
func NewLowercase() *Lowercase {
	l := &Lowercase{}
	l.casers.New = func() any {
		c := cases.Lower(language.Und)
		return &c
	}
	return l
}

// Name implements stage.Stage.
func (*Lowercase) Name() string { return KindLowercase }

// Process implements stage.Stage.
func (l *Lowercase) Process(_ context.Context, in value.Value) (value.Value, error) {
	c := l.casers.Get().(*cases.Caser)
	defer l.casers.Put(c)

	return mapTokens(l, in, func(tok string) string {
		lower := c.String(tok)
		if lower == tok {
			return tok
		}
		return lower
	})
}

// SpellingMapper replaces alternative spellings with their target spelling.
type SpellingMapper struct {
	spellings map[string]string
}

// NewSpellingMapper creates a SpellingMapper from an alternative -> target
// table. The table is copied.
func NewSpellingMapper(spellings map[string]string) *SpellingMapper {
	m := make(map[string]string, len(spellings))
	for alt, target := range spellings {
		m[alt] = target
	}
	return &SpellingMapper{spellings: m}
}

// LoadSpellingMapper creates a SpellingMapper from a spelling table file.
func LoadSpellingMapper(path string) (*SpellingMapper, error) {
	spellings, err := dictionary.LoadSpelling(path)
	if err != nil {
		return nil, err
	}
	return &SpellingMapper{spellings: spellings}, nil
}

// Name implements stage.Stage.
func (*SpellingMapper) Name() string { return KindSpellingMapper }

// Len returns the number of known alternative spellings.
func (m *SpellingMapper) Len() int { return len(m.spellings) }

// Process implements stage.Stage.
func (m *SpellingMapper) Process(_ context.Context, in value.Value) (value.Value, error) {
	return mapTokens(m, in, func(tok string) string {
		if target, ok := m.spellings[tok]; ok {
			return target
		}
		return tok
	})
}

// Lemmatizer replaces derivative forms with their lemma.
type Lemmatizer struct {
	lemmas  map[string]struct{}
	reverse map[string]string
}

// NewLemmatizer creates a Lemmatizer from a lemma -> derivatives table.
// When a derivative is listed under several lemmas the lexicographically
// first lemma is used.
func NewLemmatizer(lemmas map[string][]string) *Lemmatizer {
	names := make([]string, 0, len(lemmas))
	for lemma := range lemmas {
		names = append(names, lemma)
	}
	sort.Strings(names)

	l := &Lemmatizer{
		lemmas:  make(map[string]struct{}, len(lemmas)),
		reverse: make(map[string]string),
	}
	for _, lemma := range names {
		l.lemmas[lemma] = struct{}{}
		for _, d := range lemmas[lemma] {
			if _, seen := l.reverse[d]; !seen {
				l.reverse[d] = lemma
			}
		}
	}
	return l
}

// LoadLemmatizer creates a Lemmatizer from a lemma table file.
func LoadLemmatizer(path string) (*Lemmatizer, error) {
	lemmas, err := dictionary.LoadLemmas(path)
	if err != nil {
		return nil, err
	}
	return NewLemmatizer(lemmas), nil
}

// Name implements stage.Stage.
func (*Lemmatizer) Name() string { return KindLemmatizer }

// Process implements stage.Stage.
func (l *Lemmatizer) Process(_ context.Context, in value.Value) (value.Value, error) {
	return mapTokens(l, in, func(tok string) string {
		if _, ok := l.lemmas[tok]; ok {
			return tok
		}
		if lemma, ok := l.reverse[tok]; ok {
			return lemma
		}
		return tok
	})
}

// PorterStemmer reduces every token to its Porter stem.
type PorterStemmer struct{}

// NewPorterStemmer creates a PorterStemmer.
func NewPorterStemmer() *PorterStemmer { return &PorterStemmer{} }

// Name implements stage.Stage.
func (*PorterStemmer) Name() string { return KindPorterStemmer }

// Process implements stage.Stage.
func (p *PorterStemmer) Process(_ context.Context, in value.Value) (value.Value, error) {
	return mapTokens(p, in, porterstemmer.StemString)
}
