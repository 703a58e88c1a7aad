package value

import (
	"bytes"
	"fmt"
	"io"
	"math"

	gojson "github.com/goccy/go-json"

	"github.com/kbukum/textforge/errors"
)

// ToStructured converts v into the Structured exchange shape.
// RawText and Text become a JSON string, TextSequence becomes an array of
// strings and Structured values are checked and returned unchanged.
func ToStructured(v Value) (Value, error) {
	switch v.kind {
	case KindRawText, KindText:
		return Structured(v.text), nil
	case KindTextSequence:
		items := make([]any, len(v.seq))
		for i, s := range v.seq {
			items[i] = s
		}
		return Structured(items), nil
	case KindStructured:
		if err := checkTree(v.tree, "$"); err != nil {
			return Value{}, err
		}
		return v, nil
	default:
		return Value{}, errors.Serialization("cannot convert an invalid value to structured")
	}
}

// Encode serializes a value to JSON. Non-structured values are converted
// with ToStructured first.
func Encode(v Value) ([]byte, error) {
	s, err := ToStructured(v)
	if err != nil {
		return nil, err
	}
	data, err := gojson.Marshal(s.tree)
	if err != nil {
		return nil, errors.Serialization(fmt.Sprintf("encoding structured value: %v", err)).WithCause(err)
	}
	return data, nil
}

// Decode parses one JSON document into a Structured value. Numbers are kept
// as json.Number literals so large integers survive a round trip.
func Decode(data []byte) (Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return Value{}, errors.Serialization(fmt.Sprintf("decoding structured value: %v", err)).WithCause(err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return Value{}, errors.Serialization("decoding structured value: trailing data after document")
	}
	return Structured(tree), nil
}

// MarshalJSON implements json.Marshaler. Invalid values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindInvalid {
		return []byte("null"), nil
	}
	return Encode(v)
}

// checkTree walks a structured tree and rejects leaves outside the JSON model.
func checkTree(node any, path string) error {
	switch n := node.(type) {
	case nil, bool, string, gojson.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil
	case float32:
		return checkFloat(float64(n), path)
	case float64:
		return checkFloat(n, path)
	case []any:
		for i, item := range n {
			if err := checkTree(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case []string:
		return nil
	case map[string]any:
		for k, item := range n {
			if err := checkTree(item, path+"."+k); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Serialization(fmt.Sprintf("unsupported %T at %s", node, path)).
			WithDetail("path", path)
	}
}

func checkFloat(f float64, path string) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.Serialization(fmt.Sprintf("non-finite number at %s", path)).
			WithDetail("path", path)
	}
	return nil
}
