// Package value defines the tagged interchange type passed between
// pipeline stages.
//
// A Value carries exactly one of four shapes:
//
//   - RawText: an unprocessed input string, the entry point of a pipeline
//   - Text: a single text value
//   - TextSequence: an ordered sequence of text values (tokens, words)
//   - Structured: a JSON-like tree, the exchange shape for output
//
// Text payloads are Go strings, which are immutable: a stage that passes a
// token through unchanged shares it with its source, and a stage that
// changes a token allocates a new one. Stages must never write into a
// received sequence's backing array.
//
// # Usage
//
//	v := value.Sequence([]string{"hello", "world"})
//	out, err := value.ToStructured(v)
//	data, err := value.Encode(out) // ["hello","world"]
package value
