package internal

import (
	"regexp"
	"testing"
)

func TestSanitizePrefix(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"hello", 10, "hello"},
		{"Hello, world!", 10, "Helloworld"},
		{"How are you today?", 10, "Howareyout"},
		{"안녕하세요", 10, ""},
		{"café au lait", 10, "cafaulait"},
		{"", 10, ""},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizePrefix(tt.input, tt.max); got != tt.want {
				t.Errorf("SanitizePrefix(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"words", "words"},
		{"my words.csv", "my_words_csv"},
		{"a-b_c", "a-b_c"},
		{"단어", "__"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGenerateCardID(t *testing.T) {
	id := GenerateCardID("apple")
	if !regexp.MustCompile(`^\d+_[0-9a-f]{8}$`).MatchString(id) {
		t.Errorf("GenerateCardID() = %q, unexpected format", id)
	}
}
