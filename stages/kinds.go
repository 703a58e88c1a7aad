package stages

import (
	"github.com/kbukum/textforge/stage"
)

// Built-in stage kinds. Each kind is also the default stage name.
const (
	KindPreProcessor   = "pre_processor"
	KindTokenizer      = "tokenizer"
	KindLowercase      = "lowercase"
	KindSpellingMapper = "spelling_mapper"
	KindLemmatizer     = "lemmatizer"
	KindPorterStemmer  = "porter_stemmer"
	KindPostProcessor  = "post_processor"
)

// Parameter keys understood by the built-in factories.
const (
	ParamPath            = "path"
	ParamTrimPunctuation = "trim_punctuation"
)

// Register adds every built-in kind to reg.
func Register(reg *stage.Registry) {
	reg.Register(KindPreProcessor, func(stage.Params) (stage.Stage, error) {
		return NewPreProcessor(), nil
	})
	reg.Register(KindTokenizer, func(p stage.Params) (stage.Stage, error) {
		trim, err := p.Bool(ParamTrimPunctuation, false)
		if err != nil {
			return nil, err
		}
		return NewTokenizer(TokenizerOptions{TrimPunctuation: trim}), nil
	})
	reg.Register(KindLowercase, func(stage.Params) (stage.Stage, error) {
		return NewLowercase(), nil
	})
	reg.Register(KindSpellingMapper, func(p stage.Params) (stage.Stage, error) {
		path, err := p.RequireString(ParamPath)
		if err != nil {
			return nil, err
		}
		return LoadSpellingMapper(path)
	})
	reg.Register(KindLemmatizer, func(p stage.Params) (stage.Stage, error) {
		path, err := p.RequireString(ParamPath)
		if err != nil {
			return nil, err
		}
		return LoadLemmatizer(path)
	})
	reg.Register(KindPorterStemmer, func(stage.Params) (stage.Stage, error) {
		return NewPorterStemmer(), nil
	})
	reg.Register(KindPostProcessor, func(stage.Params) (stage.Stage, error) {
		return NewPostProcessor(), nil
	})
}

// NewRegistry returns a registry holding every built-in kind.
func NewRegistry() *stage.Registry {
	reg := stage.NewRegistry()
	Register(reg)
	return reg
}
