// Package dictionary loads the two-column delimited tables used by the
// spelling mapper and the lemmatizer.
//
// Column one holds the target word, column two one or more forms joined by
// Options.Separator:
//
//	target,forms
//	be,"is, are, was"
//
// Tables are read once when a stage is constructed and are never cached here.
package dictionary

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kbukum/textforge/errors"
)

// Options controls how a table is parsed.
type Options struct {
	// Delimiter separates the two columns.
	Delimiter rune
	// Header skips the first row.
	Header bool
	// Separator splits the second column into forms.
	Separator string
}

// DefaultOptions returns comma-delimited options with a header row.
func DefaultOptions() Options {
	return Options{Delimiter: ',', Header: true, Separator: ","}
}

func (o *Options) applyDefaults() {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Separator == "" {
		o.Separator = ","
	}
}

// Entry is one table row.
type Entry struct {
	Target string
	Forms  []string
}

// ReadPairs reads every row of the table at path.
func ReadPairs(path string, opts Options) ([]Entry, error) {
	opts.applyDefaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(fmt.Sprintf("failed to open table %s", path)).
			WithCause(err).
			WithDetail("path", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = opts.Delimiter
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var entries []Entry
	first := true
	for {
		record, err := r.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				line = parseErr.Line
			}
			return nil, readError(path, line, err)
		}
		line, _ := r.FieldPos(0)
		if first {
			first = false
			if opts.Header {
				continue
			}
		}
		if len(record) < 2 {
			return nil, readError(path, line, fmt.Errorf("expected 2 columns, got %d", len(record)))
		}
		entries = append(entries, Entry{
			Target: strings.TrimSpace(record[0]),
			Forms:  splitForms(record[1], opts.Separator),
		})
	}
	return entries, nil
}

func splitForms(col, sep string) []string {
	parts := strings.Split(col, sep)
	forms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			forms = append(forms, p)
		}
	}
	return forms
}

func readError(path string, line int, cause error) *errors.AppError {
	return errors.IO(fmt.Sprintf("failed to read table %s at line %d", path, line)).
		WithCause(cause).
		WithDetails(map[string]any{"path": path, "line": line})
}

// LoadSpelling reads a spelling table and returns alternative -> target.
// A later row overrides an earlier one for the same alternative.
func LoadSpelling(path string) (map[string]string, error) {
	entries, err := ReadPairs(path, DefaultOptions())
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		for _, alt := range e.Forms {
			m[alt] = e.Target
		}
	}
	return m, nil
}

// LoadLemmas reads a lemma table and returns lemma -> derivatives.
// Rows repeating a lemma extend its derivative list.
func LoadLemmas(path string) (map[string][]string, error) {
	entries, err := ReadPairs(path, DefaultOptions())
	if err != nil {
		return nil, err
	}
	m := make(map[string][]string, len(entries))
	for _, e := range entries {
		m[e.Target] = append(m[e.Target], e.Forms...)
	}
	return m, nil
}
