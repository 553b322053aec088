package main

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"codeberg.org/snonux/wordspeak/internal/study"
	"codeberg.org/snonux/wordspeak/internal/wordlist"
)

var testWords = wordlist.WordList{
	{En: "apple", Ko: "사과"},
	{En: "banana", Ko: "바나나"},
	{En: "cherry", Ko: "체리"},
}

func TestRunQuiz(t *testing.T) {
	quiz, err := study.NewQuiz(testWords, 25, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewQuiz() error = %v", err)
	}

	// Answer the first question correctly by word, skip a blank line,
	// then answer the rest wrongly.
	first, _ := quiz.Current()
	input := first.Entry.En + "\n\nwrong\nwrong\nn\n"

	var out bytes.Buffer
	if err := runQuiz(strings.NewReader(input), &out, quiz); err != nil {
		t.Fatalf("runQuiz() error = %v", err)
	}

	if !quiz.Done() {
		t.Fatal("quiz should be done")
	}
	if quiz.Score() != 1 {
		t.Errorf("Score() = %d, want 1", quiz.Score())
	}
	if !strings.Contains(out.String(), "Score: 1 / 3") {
		t.Errorf("output misses score line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "your answer: wrong") {
		t.Errorf("output misses wrong answers:\n%s", out.String())
	}
}

func TestRunQuizRetry(t *testing.T) {
	quiz, err := study.NewQuiz(testWords, 25, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewQuiz() error = %v", err)
	}

	input := "x\nx\nx\ny\n"
	var out bytes.Buffer
	if err := runQuiz(strings.NewReader(input), &out, quiz); err != nil {
		t.Fatalf("runQuiz() error = %v", err)
	}

	// Input ran out during the second round
	if quiz.Done() {
		t.Error("second round should be unfinished")
	}
	if quiz.Position() != 0 {
		t.Errorf("Position() = %d, want 0", quiz.Position())
	}
	if got := strings.Count(out.String(), "Question 1 / 3"); got != 2 {
		t.Errorf("first question shown %d times, want 2", got)
	}
}

func TestRunCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []string
		wantIdx  int
		wantSaid []string
	}{
		{
			name:    "flip shows meaning",
			input:   "f\nq\n",
			want:    []string{"[1/3] apple", "사과"},
			wantIdx: 0,
		},
		{
			name:    "next and previous wrap",
			input:   "p\nn\nn\nq\n",
			want:    []string{"[3/3] cherry", "[1/3] apple", "[2/3] banana"},
			wantIdx: 1,
		},
		{
			name:     "speak current word",
			input:    "n\ns\nq\n",
			want:     []string{"Audio: /cache/banana.mp3"},
			wantIdx:  1,
			wantSaid: []string{"banana"},
		},
		{
			name:    "unknown command",
			input:   "zzz\n",
			want:    []string{"Unknown command"},
			wantIdx: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck := study.NewDeck(testWords)
			var said []string
			speak := func(text string) (string, error) {
				said = append(said, text)
				return "/cache/" + text + ".mp3", nil
			}

			var out bytes.Buffer
			if err := runCards(strings.NewReader(tt.input), &out, deck, speak); err != nil {
				t.Fatalf("runCards() error = %v", err)
			}

			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output misses %q:\n%s", w, out.String())
				}
			}
			if deck.Index() != tt.wantIdx {
				t.Errorf("Index() = %d, want %d", deck.Index(), tt.wantIdx)
			}
			if strings.Join(said, ",") != strings.Join(tt.wantSaid, ",") {
				t.Errorf("spoken = %v, want %v", said, tt.wantSaid)
			}
		})
	}
}

func TestRunCardsSpeakError(t *testing.T) {
	deck := study.NewDeck(testWords)
	speak := func(string) (string, error) {
		return "", errors.New("engine down")
	}

	var out bytes.Buffer
	if err := runCards(strings.NewReader("s\nq\n"), &out, deck, speak); err != nil {
		t.Fatalf("runCards() error = %v", err)
	}
	if !strings.Contains(out.String(), "Speech failed: engine down") {
		t.Errorf("output misses failure:\n%s", out.String())
	}
}

func TestRunCardsEmptyDeck(t *testing.T) {
	var out bytes.Buffer
	if err := runCards(strings.NewReader(""), &out, study.NewDeck(nil), nil); err != nil {
		t.Fatalf("runCards() error = %v", err)
	}
	if !strings.Contains(out.String(), "No words found.") {
		t.Errorf("output = %q", out.String())
	}
}
