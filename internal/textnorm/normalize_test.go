package textnorm

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"only spaces", "    ", ""},
		{"only mixed whitespace", " \t\n\r ", ""},
		{"already clean", "Raman Kumar", "Raman Kumar"},
		{"leading/trailing spaces", "  Raman  ", "Raman"},
		{"multiple spaces between words", "Raman    Kumar", "Raman Kumar"},
		{"tabs and newlines", "Raman\t\tKumar\nVelu", "Raman Kumar Velu"},
		{"tamil text", "  முருகன்   மதியழகன் ", "முருகன் மதியழகன்"},
		{"non-breaking and ideographic spaces", "Raman 　Kumar", "Raman Kumar"},
		{"case is preserved", " MuRuGaN ", "MuRuGaN"},
		{"punctuation is preserved", " S. Raman ", "S. Raman"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotentAndClean(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"a",
		"  a  b  ",
		"\ta\n\nb\r\nc ",
		"முருகன்    குமார்",
		"x . y",
		strings.Repeat(" ab ", 50),
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not idempotent for %q: %q then %q", input, once, twice)
		}
		if strings.Contains(once, "  ") {
			t.Errorf("Normalize(%q) = %q contains a double space", input, once)
		}
		if strings.TrimSpace(once) != once {
			t.Errorf("Normalize(%q) = %q has leading or trailing space", input, once)
		}
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \t ") {
		t.Error("expected whitespace-only input to be blank")
	}
	if IsBlank(" a ") {
		t.Error("expected non-empty input not to be blank")
	}
}
