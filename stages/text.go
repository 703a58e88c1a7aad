package stages

import (
	"context"
	"strings"
	"unicode"

	"github.com/kbukum/textforge/stage"
	"github.com/kbukum/textforge/value"
)

// PreProcessor marks raw input as text. The string is not copied.
type PreProcessor struct{}

// NewPreProcessor creates a PreProcessor.
func NewPreProcessor() *PreProcessor { return &PreProcessor{} }

// Name implements stage.Stage.
func (*PreProcessor) Name() string { return KindPreProcessor }

// Process implements stage.Stage.
func (p *PreProcessor) Process(_ context.Context, in value.Value) (value.Value, error) {
	s, ok := in.Raw()
	if !ok {
		return value.Value{}, stage.Expect(p.Name(), in, value.KindRawText)
	}
	return value.Text(s), nil
}

// TokenizerOptions configures a Tokenizer.
type TokenizerOptions struct {
	// TrimPunctuation strips trailing punctuation from every token.
	TrimPunctuation bool
}

// Tokenizer splits text on Unicode whitespace. Tokens share memory with
// the input string.
type Tokenizer struct {
	opts TokenizerOptions
}

// NewTokenizer creates a Tokenizer.
func NewTokenizer(opts TokenizerOptions) *Tokenizer {
	return &Tokenizer{opts: opts}
}

// Name implements stage.Stage.
func (*Tokenizer) Name() string { return KindTokenizer }

// Process implements stage.Stage.
func (t *Tokenizer) Process(_ context.Context, in value.Value) (value.Value, error) {
	s, ok := in.AnyText()
	if !ok {
		return value.Value{}, stage.Expect(t.Name(), in, value.KindRawText, value.KindText)
	}

	fields := strings.Fields(s)
	if !t.opts.TrimPunctuation {
		return value.Sequence(fields), nil
	}

	tokens := fields[:0]
	for _, f := range fields {
		if f = strings.TrimRightFunc(f, unicode.IsPunct); f != "" {
			tokens = append(tokens, f)
		}
	}
	return value.Sequence(tokens), nil
}

// PostProcessor converts the final value into the structured exchange shape.
type PostProcessor struct{}

// NewPostProcessor creates a PostProcessor.
func NewPostProcessor() *PostProcessor { return &PostProcessor{} }

// Name implements stage.Stage.
func (*PostProcessor) Name() string { return KindPostProcessor }

// Process implements stage.Stage.
func (p *PostProcessor) Process(_ context.Context, in value.Value) (value.Value, error) {
	if !in.IsValid() {
		return value.Value{}, stage.Expect(p.Name(), in,
			value.KindRawText, value.KindText, value.KindTextSequence, value.KindStructured)
	}
	return value.ToStructured(in)
}
