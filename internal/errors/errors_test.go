package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "argument conflict",
			code:    CodeArgumentConflict,
			wantMsg: "Argument conflict",
			wantCat: CategoryArgument,
		},
		{
			name:    "structural compile",
			code:    CodeStructuralCompile,
			wantMsg: "Compile Error",
			wantCat: CategoryCompile,
		},
		{
			name:    "recompute failure",
			code:    CodeRecomputeFailure,
			wantMsg: "Recompute failed",
			wantCat: CategoryRuntime,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryConfig, "file %q not found", "vtree.yaml")
	if err.Message != `file "vtree.yaml" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q, want %q", err.Category, CategoryConfig)
	}
}

func TestError_Error(t *testing.T) {
	err := New(CodeArgumentConflict).WithDetail("You cannot specify both a positional param (at position 0) and the hash argument `name`.")
	want := "R100: Argument conflict: You cannot specify both a positional param (at position 0) and the hash argument `name`."
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}

	wrapped := New(CodeRecomputeFailure).Wrap(fmt.Errorf("boom"))
	if !strings.HasSuffix(wrapped.Error(), ": boom") {
		t.Errorf("Error() = %q, want cause suffix", wrapped.Error())
	}
}

func TestError_WithSite(t *testing.T) {
	err := New(CodeArgumentConflict).WithSite("sample-component", "name")
	if err.Site == nil {
		t.Fatal("Site is nil")
	}
	if got := err.Site.String(); got != "sample-component/name" {
		t.Errorf("Site.String() = %q", got)
	}
}

func TestSite_String(t *testing.T) {
	tests := []struct {
		name string
		site *Site
		want string
	}{
		{"nil", nil, ""},
		{"component only", &Site{Component: "x-foo"}, "x-foo"},
		{"slot only", &Site{Slot: "@arg"}, "@arg"},
		{"both", &Site{Component: "x-foo", Slot: "@arg"}, "x-foo/@arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.site.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Wrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	outer := New(CodeRecomputeFailure).Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("rendering: %w", New(CodeStructuralCompile))
	if !HasCode(err, CodeStructuralCompile) {
		t.Error("HasCode should find code through fmt wrapping")
	}
	if HasCode(err, CodeArgumentConflict) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(fmt.Errorf("plain"), CodeStructuralCompile) {
		t.Error("plain errors carry no code")
	}

	var merr *multierror.Error
	merr = multierror.Append(merr, fmt.Errorf("first"), New(CodeRecomputeFailure))
	if !HasCode(merr, CodeRecomputeFailure) {
		t.Error("HasCode should look inside aggregated errors")
	}
	if CodeOf(merr) != CodeRecomputeFailure {
		t.Errorf("CodeOf() = %q", CodeOf(merr))
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeConfigRead) != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	ce := New(CodeConfigInvalid)
	if FromError(ce, CodeConfigRead) != ce {
		t.Error("FromError should return coded errors as-is")
	}

	stdErr := fmt.Errorf("test error")
	result := FromError(stdErr, CodeConfigRead)
	if result.Wrapped != stdErr {
		t.Error("standard error should be wrapped")
	}
	if result.Code != CodeConfigRead {
		t.Errorf("Code = %q", result.Code)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeStructuralCompile).
		WithSite("foo-bar", "modifiers").
		WithDetail("Element modifiers are not allowed in components").
		WithSuggestion("Move the modifier onto an element inside the component's layout")

	formatted := err.Format()
	for _, want := range []string{
		"R200",
		"Compile Error",
		"foo-bar/modifiers",
		"Element modifiers are not allowed in components",
		"Hint:",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New(CodeUnknownComponent).WithSite("x-missing", "")
	want := "x-missing: R110: Unknown component"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New(CodeRecomputeFailure).WithSite("", "fullName").Wrap(fmt.Errorf("boom"))
	json := err.FormatJSON()
	for _, want := range []string{
		`"code":"R300"`,
		`"category":"runtime"`,
		`"message":"Recompute failed"`,
		`"slot":"fullName"`,
		`"cause":"boom"`,
	} {
		if !strings.Contains(json, want) {
			t.Errorf("FormatJSON() missing %s: %s", want, json)
		}
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var merr *multierror.Error
	merr = multierror.Append(merr, New(CodeRecomputeFailure), fmt.Errorf("plain failure"))

	var buf bytes.Buffer
	Fprint(&buf, merr)
	out := buf.String()
	if !strings.Contains(out, "R300") || !strings.Contains(out, "plain failure") {
		t.Errorf("Fprint() = %q", out)
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Errorf("codes not sorted: %v", codes)
		}
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate(CodeArgumentConflict)
	if !ok {
		t.Fatal("R100 should exist")
	}
	if template.Category != CategoryArgument {
		t.Errorf("Category = %q", template.Category)
	}
	if _, ok := GetTemplate("R999"); ok {
		t.Error("R999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("R999", ErrorTemplate{
		Category: CategoryRuntime,
		Message:  "Custom test error",
	})
	defer delete(registry, "R999")

	if err := New("R999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
