package display

import (
	"strings"
	"testing"
)

func TestBold_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	got := Bold("hello")
	if got != "\033[1mhello\033[0m" {
		t.Errorf("Bold(\"hello\") = %q, want ANSI bold wrapped", got)
	}
}

func TestBold_Disabled(t *testing.T) {
	SetEnabled(false)

	if got := Bold("hello"); got != "hello" {
		t.Errorf("Bold(\"hello\") with colors disabled = %q, want plain \"hello\"", got)
	}
}

func TestError_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	got := Error("error: boom")
	if !strings.Contains(got, "1;") || !strings.Contains(got, "31") || !strings.Contains(got, "error: boom") {
		t.Errorf("Error = %q, want bold red", got)
	}
}

func TestColors_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tests := []struct {
		name string
		fn   func(string) string
		code string
	}{
		{"Dim", Dim, "2"},
		{"Accent", Accent, "36"},
		{"Error", Error, "31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("text")
			if !strings.HasPrefix(got, "\033[") || !strings.Contains(got, tt.code) {
				t.Errorf("%s(\"text\") = %q, want escape with %s", tt.name, got, tt.code)
			}
			if !strings.Contains(got, "text") || !strings.HasSuffix(got, "\033[0m") {
				t.Errorf("%s(\"text\") = %q, want text followed by reset", tt.name, got)
			}
		})
	}
}

func TestAccent_IsBold(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	if got := Accent("next"); !strings.Contains(got, "1;") || !strings.Contains(got, "36") {
		t.Errorf("Accent(\"next\") = %q, want bold cyan", got)
	}
}

func TestEnabled_ReportsState(t *testing.T) {
	SetEnabled(true)
	if !Enabled() {
		t.Error("Enabled() should return true after SetEnabled(true)")
	}

	SetEnabled(false)
	if Enabled() {
		t.Error("Enabled() should return false after SetEnabled(false)")
	}
}

func TestShouldEnable_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	if shouldEnable() {
		t.Error("NO_COLOR should win over FORCE_COLOR")
	}
}

func TestAllColors_Disabled_ReturnPlainText(t *testing.T) {
	SetEnabled(false)

	funcs := []struct {
		name string
		fn   func(string) string
	}{
		{"Bold", Bold},
		{"Dim", Dim},
		{"Accent", Accent},
		{"Error", Error},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			if got := f.fn("plain"); got != "plain" {
				t.Errorf("%s(\"plain\") with colors disabled = %q, want \"plain\"", f.name, got)
			}
		})
	}
}
