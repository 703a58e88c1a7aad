package value

import (
	"fmt"
	"strings"
)

// Kind identifies the active variant of a Value.
type Kind uint8

const (
	// KindInvalid is the kind of the zero Value. No stage accepts it.
	KindInvalid Kind = iota
	// KindRawText is an unprocessed input string.
	KindRawText
	// KindText is a single text value.
	KindText
	// KindTextSequence is an ordered sequence of text values.
	KindTextSequence
	// KindStructured is a JSON-like tree.
	KindStructured
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindRawText:      "raw_text",
	KindText:         "text",
	KindTextSequence: "text_sequence",
	KindStructured:   "structured",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a closed tagged union over the shapes a stage may consume or produce.
// Values are small and passed by value.
type Value struct {
	kind Kind
	text string
	seq  []string
	tree any
}

// RawText wraps an unprocessed input string.
func RawText(s string) Value { return Value{kind: KindRawText, text: s} }

// Text wraps a single text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Sequence wraps an ordered sequence of text values. The slice is not copied;
// the caller hands ownership to the Value.
func Sequence(tokens []string) Value { return Value{kind: KindTextSequence, seq: tokens} }

// Structured wraps a tree built from nil, bool, numbers, string, []any and
// map[string]any. The tree is checked when it is converted or encoded.
func Structured(tree any) Value { return Value{kind: KindStructured, tree: tree} }

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a variant.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Raw returns the payload of a RawText value.
func (v Value) Raw() (string, bool) {
	if v.kind != KindRawText {
		return "", false
	}
	return v.text, true
}

// Text returns the payload of a Text value.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// AnyText returns the payload of either a RawText or a Text value.
func (v Value) AnyText() (string, bool) {
	if v.kind != KindRawText && v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Sequence returns the payload of a TextSequence value. The returned slice is
// shared with v and must not be modified.
func (v Value) Sequence() ([]string, bool) {
	if v.kind != KindTextSequence {
		return nil, false
	}
	return v.seq, true
}

// Tree returns the payload of a Structured value.
func (v Value) Tree() (any, bool) {
	if v.kind != KindStructured {
		return nil, false
	}
	return v.tree, true
}

// Interface returns the Go payload: a string, a []string, the tree, or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindRawText, KindText:
		return v.text
	case KindTextSequence:
		return v.seq
	case KindStructured:
		return v.tree
	default:
		return nil
	}
}

// String renders v for logs and debugging.
func (v Value) String() string {
	switch v.kind {
	case KindRawText, KindText:
		return fmt.Sprintf("%s(%q)", v.kind, v.text)
	case KindTextSequence:
		quoted := make([]string, len(v.seq))
		for i, s := range v.seq {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("%s[%s]", v.kind, strings.Join(quoted, " "))
	case KindStructured:
		return fmt.Sprintf("%s(%v)", v.kind, v.tree)
	default:
		return v.kind.String()
	}
}
