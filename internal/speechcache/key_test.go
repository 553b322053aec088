package speechcache

import (
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		text       string
		wantPrefix string
	}{
		{"hello", "hello_"},
		{"How are you today?", "Howareyout_"},
		{"안녕하세요", "_"},
		{"  apple  ", "apple_"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			key := Key(tt.text)
			if !strings.HasPrefix(key, tt.wantPrefix) {
				t.Errorf("Key(%q) = %q, want prefix %q", tt.text, key, tt.wantPrefix)
			}
			if len(key) != len(tt.wantPrefix)+16 {
				t.Errorf("Key(%q) = %q, expected 16 digest characters", tt.text, key)
			}
			if !validName(key + Ext) {
				t.Errorf("FileName for %q is rejected by validName", tt.text)
			}
		})
	}
}

func TestKeyKnownDigest(t *testing.T) {
	// sha256("hello") = 2cf24dba5fb0a30e26e83b2ac5b9e29e...
	if got := FileName("hello"); got != "hello_2cf24dba5fb0a30e.mp3" {
		t.Errorf("FileName(hello) = %q", got)
	}
}

func TestKeyDeterministic(t *testing.T) {
	if Key("good morning") != Key("good morning") {
		t.Error("Key() is not deterministic")
	}
	if Key("good morning") == Key("Good morning") {
		t.Error("Key() should distinguish differently cased text")
	}
	if Key("apple") == Key("apple ") {
		t.Error("Key() should hash the text exactly as given")
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"hello_2cf24dba5fb0a30e.mp3", true},
		{"_2cf24dba5fb0a30e.mp3", true},
		{"../hello_2cf24dba5fb0a30e.mp3", false},
		{"sub/hello_2cf24dba5fb0a30e.mp3", false},
		{"hello_2cf24dba5fb0a30e.wav", false},
		{".synth-123.mp3", false},
		{"hello_2CF24DBA5FB0A30E.mp3", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := validName(tt.name); got != tt.want {
			t.Errorf("validName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
