package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"codeberg.org/snonux/wordspeak/internal/study"
)

// runQuiz asks the quiz questions on out, reading answers line by line
// from in. Blank lines are ignored. It returns when the quiz is done and
// the user declines a retry, or when in is exhausted.
func runQuiz(in io.Reader, out io.Writer, quiz *study.Quiz) error {
	scanner := bufio.NewScanner(in)

	for {
		for !quiz.Done() {
			q, _ := quiz.Current()
			fmt.Fprintf(out, "\nQuestion %d / %d\n  %s\n", quiz.Position()+1, quiz.Len(), q.Prompt())
			for i, choice := range q.Choices {
				fmt.Fprintf(out, "  %d) %s\n", i+1, choice)
			}
			fmt.Fprint(out, "> ")

			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}

			result, ok := quiz.Submit(scanner.Text())
			if !ok {
				continue
			}
			if result.Correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Wrong, it is %q\n", result.Entry.En)
			}
		}

		printResults(out, quiz)

		fmt.Fprint(out, "Retry? (y/N) ")
		if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		quiz.Retry()
	}
}

func printResults(out io.Writer, quiz *study.Quiz) {
	fmt.Fprintf(out, "\nScore: %d / %d\n", quiz.Score(), quiz.Len())
	for _, r := range quiz.Results() {
		if !r.Correct {
			fmt.Fprintf(out, "  %s: %s (your answer: %s)\n", r.Entry.Ko, r.Entry.En, r.Answer)
		}
	}
}

// runCards shows one flashcard at a time. Commands: n next, p previous,
// f or an empty line flips, s speaks the english side, q quits.
func runCards(in io.Reader, out io.Writer, deck *study.Deck, speak func(string) (string, error)) error {
	if deck.Len() == 0 {
		fmt.Fprintln(out, "No words found.")
		return nil
	}

	scanner := bufio.NewScanner(in)
	for {
		card, _ := deck.Current()
		fmt.Fprintf(out, "\n[%d/%d] %s\n", deck.Index()+1, deck.Len(), card.En)
		if deck.Revealed() {
			fmt.Fprintf(out, "       %s\n", card.Ko)
		}
		fmt.Fprint(out, "(n)ext (p)rev (f)lip (s)peak (q)uit > ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n":
			deck.Next()
		case "p":
			deck.Prev()
		case "", "f":
			deck.Flip()
		case "s":
			if card.En == "" {
				fmt.Fprintln(out, "Nothing to speak")
				continue
			}
			path, err := speak(card.En)
			if err != nil {
				fmt.Fprintf(out, "Speech failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Audio: %s\n", path)
		case "q":
			return nil
		default:
			fmt.Fprintln(out, "Unknown command")
		}
	}
}
