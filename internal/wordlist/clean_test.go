package wordlist

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"apple", "apple"},
		{"  apple  ", "apple"},
		{`"apple"`, "apple"},
		{`" apple "`, "apple"},
		{"“사과”", "사과"},
		{`"apple`, "apple"},
		{`apple"`, "apple"},
		{`""apple""`, `"apple"`},
		{"'apple'", "apple"},
		{"‘apple’", "apple"},
		{"'cause", "'cause"},
		{"dogs’", "dogs’"},
		{`"'apple'"`, "'apple'"},
		{`"'apple`, "'apple"},
		{"'", "'"},
		{"", ""},
		{`"`, ""},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWordListEligible(t *testing.T) {
	list := WordList{
		{En: "apple", Ko: "사과"},
		{En: "banana"},
		{Ko: "체리"},
		{En: "grape", Ko: "포도"},
	}

	got := list.Eligible()
	if len(got) != 2 {
		t.Fatalf("Eligible() returned %d entries, want 2", len(got))
	}
	if got[0].En != "apple" || got[1].En != "grape" {
		t.Errorf("Eligible() = %v", got)
	}
}
