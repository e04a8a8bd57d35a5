// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, details and fatal classification

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/texmerge/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "template_not_found",
			code:    errors.ErrTemplateNotFound,
			message: "template not found",
			wantStr: "[TEMPLATE_NOT_FOUND] template not found",
		},
		{
			name:    "input_parse",
			code:    errors.ErrInputParse,
			message: "bad line",
			wantStr: "[INPUT_PARSE] bad line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("exit status 1")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrCompile, "compiler failed on %s", "a.tex")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}
		wantStr := "[COMPILE] compiler failed on a.tex: exit status 1"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
		if !stderrors.Is(err, baseErr) {
			t.Error("errors.Is should find the wrapped cause")
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "internal error"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})
}

func TestDetails(t *testing.T) {
	err := errors.New(errors.ErrCompile, "compile failed").
		WithDetail(errors.DetailExitCode, 1).
		WithDetails(map[string]interface{}{errors.DetailLogPath: "/out/ada.log"})

	code, ok := errors.GetDetailInt(err, errors.DetailExitCode)
	if !ok || code != 1 {
		t.Errorf("exit code detail = %v (%v), want 1", code, ok)
	}
	if got := errors.GetDetailString(err, errors.DetailLogPath); got != "/out/ada.log" {
		t.Errorf("log path detail = %q", got)
	}
	if got := errors.GetDetailString(stderrors.New("plain"), errors.DetailLogPath); got != "" {
		t.Errorf("plain error detail = %q, want empty", got)
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrUndefinedPlaceholder, "missing Name")
	err2 := errors.New(errors.ErrUndefinedPlaceholder, "missing City")
	err3 := errors.New(errors.ErrCompile, "boom")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match on code")
	}
	if err1.Is(err3) {
		t.Error("Is() should return false for different codes")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{"structured", errors.New(errors.ErrWorkspace, "x"), errors.ErrWorkspace},
		{"wrapped_in_fmt", stderrors.Join(stderrors.New("a"), errors.New(errors.ErrPlace, "b")), errors.ErrPlace},
		{"standard_error", stderrors.New("standard error"), errors.ErrUnknown},
		{"nil_error", nil, errors.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		code  errors.ErrorCode
		fatal bool
	}{
		{errors.ErrTemplateNotFound, true},
		{errors.ErrTemplateSyntax, true},
		{errors.ErrWorkspace, true},
		{errors.ErrCompilerMissing, true},
		{errors.ErrInputParse, false},
		{errors.ErrUndefinedPlaceholder, false},
		{errors.ErrCompile, false},
		{errors.ErrPlace, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := errors.IsFatal(errors.New(tt.code, "x")); got != tt.fatal {
				t.Errorf("IsFatal(%s) = %v, want %v", tt.code, got, tt.fatal)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	inner := errors.New(errors.ErrInputParse, "people.csv:3: wrong number of fields")
	outer := errors.Wrap(inner, errors.ErrInputOpen, "cannot read records")

	if got := errors.Describe(outer); got != "cannot read records: people.csv:3: wrong number of fields" {
		t.Errorf("Describe() = %q", got)
	}
	if got := errors.Describe(stderrors.New("plain")); got != "plain" {
		t.Errorf("Describe(plain) = %q", got)
	}
	if got := errors.Describe(nil); got != "" {
		t.Errorf("Describe(nil) = %q", got)
	}
}
