package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeIO, "read failed")
	if err.Code != ErrCodeIO {
		t.Errorf("expected code %s, got %s", ErrCodeIO, err.Code)
	}
	if err.Message != "read failed" {
		t.Errorf("expected message 'read failed', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("IO_ERROR should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeCanceled, "stopped")
	if !err.Retryable {
		t.Error("CANCELED should be retryable")
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("lowercase", "text_sequence")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["stage"] != "lowercase" {
		t.Errorf("expected stage=lowercase, got %v", err.Details["stage"])
	}
	if err.Details["expected"] != "text_sequence" {
		t.Errorf("expected expected=text_sequence, got %v", err.Details["expected"])
	}
	if !strings.Contains(err.Message, "lowercase") {
		t.Errorf("message should name the stage, got %q", err.Message)
	}
}

func TestAppError_EmptyPipeline(t *testing.T) {
	err := EmptyPipeline()
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Message != "pipeline has no stages" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAppError_InvalidConfig_EmptyField(t *testing.T) {
	err := InvalidConfig("", "bad")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no 'field' key in details when field is empty")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		retryable bool
	}{
		{"IO", IO("missing"), ErrCodeIO, false},
		{"InvalidInput", InvalidInput("s", "text"), ErrCodeInvalidInput, false},
		{"InvalidConfig", InvalidConfig("path", "is required"), ErrCodeInvalidInput, false},
		{"Validation", Validation("bad"), ErrCodeInvalidInput, false},
		{"Serialization", Serialization("NaN"), ErrCodeSerialization, false},
		{"Unknown", Unknown("boom"), ErrCodeUnknown, false},
		{"UnknownStageKind", UnknownStageKind("x"), ErrCodeUnknownStageKind, false},
		{"Frozen", Frozen(), ErrCodePipelineFrozen, false},
		{"Canceled", Canceled(nil), ErrCodeCanceled, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
			if tc.err.Message == "" {
				t.Error("expected a descriptive message")
			}
		})
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := IO("open failed").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if Unknown("x").Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := InvalidInput("s", "text").WithDetails(map[string]any{"stage_index": 2})
	if err.Details["stage_index"] != 2 {
		t.Errorf("expected stage_index=2 in details")
	}
	if err.Details["stage"] != "s" {
		t.Error("expected original details to be preserved")
	}

	err = Unknown("x").WithDetails(nil)
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized even with nil input")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	resp := InvalidInput("tokenizer", "raw_text|text").ToResponse()
	if resp.Error.Code != ErrCodeInvalidInput {
		t.Errorf("expected code INVALID_INPUT in response, got %s", resp.Error.Code)
	}
	if resp.Error.Details["stage"] != "tokenizer" {
		t.Error("expected stage=tokenizer in response details")
	}
}

func TestAppError_ToMap(t *testing.T) {
	err := InvalidInput("tokenizer", "text")
	m := err.ToMap()
	if m["code"] != "INVALID_INPUT" {
		t.Errorf("expected code string, got %v", m["code"])
	}
	details, ok := m["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", m["details"])
	}
	details["stage"] = "changed"
	if err.Details["stage"] != "tokenizer" {
		t.Error("ToMap should copy details")
	}

	if _, ok := Unknown("x").ToMap()["details"]; ok {
		t.Error("expected no details key when details are empty")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Unknown("x"))

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeUnknown {
		t.Errorf("expected UNKNOWN_ERROR, got %s", got.Code)
	}

	if IsAppError(fmt.Errorf("not an app error")) {
		t.Error("expected IsAppError to return false for non-AppError")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", IO("x"))
	if !HasCode(err, ErrCodeIO) {
		t.Error("expected HasCode to see wrapped IO_ERROR")
	}
	if HasCode(err, ErrCodeUnknown) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeIO) {
		t.Error("expected HasCode false for plain errors")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := IO("x")
	if Wrap(orig) != orig {
		t.Error("Wrap should return the original AppError unchanged")
	}
	if got := Wrap(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Error("Wrap should unwrap a wrapped AppError")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeUnknown {
		t.Errorf("expected UNKNOWN_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
	if got.Message != "something broke" {
		t.Errorf("expected message from cause, got %q", got.Message)
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var err error = IO("x")
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		t.Error("stderrors.As should work with AppError")
	}
}
