package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/value"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeConfig writes a config whose pipeline lists stagesYAML. {dir} in
// stagesYAML is replaced with the directory holding spelling.csv.
func writeConfig(t *testing.T, stagesYAML string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "spelling.csv", "target,alternative\naluminium,aluminum\n")
	writeFile(t, dir, "pipeline.yaml", "name: cli\nstages:\n"+strings.ReplaceAll(stagesYAML, "{dir}", dir))
	return writeFile(t, dir, "config.yml", `
name: textforge
environment: production
logging:
  level: disabled
  output: discard
pipeline_file: pipeline.yaml
executor:
  workers: 2
`)
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		v, err := value.Decode([]byte(line))
		if err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		m, ok := v.Interface().(map[string]any)
		if !ok {
			t.Fatalf("expected object, got %T", v.Interface())
		}
		lines = append(lines, m)
	}
	return lines
}

func TestRun_Stdin(t *testing.T) {
	cfg := writeConfig(t, "  - kind: tokenizer\n  - kind: lowercase\n")

	out, err := execute(t, "Hello WORLD\nAluminum Foil\n", "run", "--config", cfg, "--ordered")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	want := []map[string]any{
		{"id": "line-1", "content": []any{"hello", "world"}},
		{"id": "line-2", "content": []any{"aluminum", "foil"}},
	}
	if diff := cmp.Diff(want, decodeLines(t, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, `  - kind: pre_processor
  - kind: tokenizer
  - kind: lowercase
  - kind: spelling_mapper
    params:
      path: {dir}/spelling.csv
`)
	doc := writeFile(t, dir, "doc.txt", "Aluminum is METAL")

	out, err := execute(t, "", "run", "--config", cfg, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	want := []map[string]any{{"id": doc, "content": []any{"aluminium", "is", "metal"}}}
	if diff := cmp.Diff(want, decodeLines(t, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_FailedDocumentsExitNonZero(t *testing.T) {
	// The lowercase stage rejects text that was not tokenized.
	cfg := writeConfig(t, "  - kind: pre_processor\n  - kind: lowercase\n")

	out, err := execute(t, "one\n", "run", "--config", cfg)
	if !stderrors.Is(err, errRequestsFailed) {
		t.Fatalf("expected errRequestsFailed, got %v", err)
	}
	lines := decodeLines(t, out)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	errObj, ok := lines[0]["error"].(map[string]any)
	if !ok || errObj["code"] != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT marker, got %v", lines[0])
	}
}

func TestRun_BadConfig(t *testing.T) {
	cfg := writeConfig(t, "  - kind: sentiment\n")
	if _, err := execute(t, "x\n", "run", "--config", cfg); err == nil || !strings.Contains(err.Error(), "sentiment") {
		t.Errorf("expected unknown stage kind error, got %v", err)
	}
	if _, err := execute(t, "", "run", "--config", filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestRun_MissingDocumentIsIOError(t *testing.T) {
	cfg := writeConfig(t, "  - kind: tokenizer\n")
	missing := filepath.Join(t.TempDir(), "absent.txt")

	_, err := execute(t, "", "run", "--config", cfg, missing)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeIO {
		t.Fatalf("expected IO_ERROR, got %v", err)
	}
	if appErr.Details["path"] != missing {
		t.Errorf("expected path detail %s, got %v", missing, appErr.Details["path"])
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Error("expected the read error as cause")
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, errors.UnknownStageKind("sentiment"))
	lines := decodeLines(t, buf.String())
	body, ok := lines[0]["error"].(map[string]any)
	if !ok || body["code"] != "UNKNOWN_STAGE_KIND" {
		t.Errorf("expected an error response body, got %v", lines[0])
	}

	buf.Reset()
	reportError(&buf, stderrors.New("plain"))
	if buf.String() != "textforge: plain\n" {
		t.Errorf("unexpected plain error output %q", buf.String())
	}
}

func TestStages(t *testing.T) {
	out, err := execute(t, "", "stages")
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []string{"tokenizer", "lowercase", "spelling_mapper", "lemmatizer", "porter_stemmer"} {
		if !strings.Contains(out, kind+"\n") {
			t.Errorf("expected %s in %q", kind, out)
		}
	}
}

func TestVersion_JSON(t *testing.T) {
	out, err := execute(t, "", "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	lines := decodeLines(t, out)
	if len(lines) != 1 || lines[0]["version"] == "" {
		t.Errorf("unexpected version output %q", out)
	}
}
