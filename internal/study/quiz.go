package study

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"codeberg.org/snonux/wordspeak/internal/wordlist"
)

// QuizSizes are the quiz lengths offered to the user
var QuizSizes = []int{25, 50, 100}

// MaxChoices is the number of choices offered per question
const MaxChoices = 4

var (
	// ErrNoEligibleWords is returned when no entry has both sides filled in
	ErrNoEligibleWords = errors.New("no quiz-ready words found")
	// ErrInvalidSize is returned for a non-positive quiz size
	ErrInvalidSize = errors.New("quiz size must be positive")
)

// Question asks for the english word of a korean meaning
type Question struct {
	Entry   wordlist.WordEntry
	Choices []string // Includes the english word, in random order
}

// Prompt returns the text shown to the user
func (q Question) Prompt() string {
	return strings.TrimSpace(q.Entry.Ko)
}

// Result records one answered question
type Result struct {
	Entry   wordlist.WordEntry
	Answer  string
	Correct bool
}

// Quiz is one round of questions drawn from the eligible entries of a word
// list
type Quiz struct {
	rng       *rand.Rand
	size      int
	pool      wordlist.WordList
	questions []Question
	results   []Result
}

// NewQuiz draws min(size, eligible) questions in random order
func NewQuiz(words wordlist.WordList, size int, rng *rand.Rand) (*Quiz, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	pool := words.Eligible()
	if len(pool) == 0 {
		return nil, ErrNoEligibleWords
	}

	q := &Quiz{rng: rng, size: size, pool: pool}
	q.start()
	return q, nil
}

func (q *Quiz) start() {
	order := q.rng.Perm(len(q.pool))
	count := min(q.size, len(q.pool))

	q.questions = make([]Question, 0, count)
	for _, i := range order[:count] {
		entry := q.pool[i]
		q.questions = append(q.questions, Question{
			Entry:   entry,
			Choices: q.choices(entry),
		})
	}
	q.results = nil
}

// choices returns the english word plus up to three distinct distractors
func (q *Quiz) choices(entry wordlist.WordEntry) []string {
	correct := strings.TrimSpace(entry.En)
	seen := map[string]bool{strings.ToLower(correct): true}
	choices := []string{correct}

	for _, i := range q.rng.Perm(len(q.pool)) {
		if len(choices) == MaxChoices {
			break
		}
		word := strings.TrimSpace(q.pool[i].En)
		if seen[strings.ToLower(word)] {
			continue
		}
		seen[strings.ToLower(word)] = true
		choices = append(choices, word)
	}

	q.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

// Len returns the number of questions in this round
func (q *Quiz) Len() int {
	return len(q.questions)
}

// Position returns the zero-based index of the current question
func (q *Quiz) Position() int {
	return len(q.results)
}

// Current returns the question awaiting an answer; ok is false once done
func (q *Quiz) Current() (question Question, ok bool) {
	if q.Done() {
		return Question{}, false
	}
	return q.questions[len(q.results)], true
}

// Submit answers the current question. The answer is either the english word,
// compared case-insensitively, or the 1-based number of the right choice.
// Blank answers are ignored and ok is false; nothing is recorded once done.
func (q *Quiz) Submit(answer string) (result Result, ok bool) {
	question, ok := q.Current()
	if !ok {
		return Result{}, false
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Result{}, false
	}

	result = Result{
		Entry:   question.Entry,
		Answer:  answer,
		Correct: question.matches(answer),
	}
	q.results = append(q.results, result)
	return result, true
}

func (q Question) matches(answer string) bool {
	correct := strings.TrimSpace(q.Entry.En)
	if strings.EqualFold(answer, correct) {
		return true
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(q.Choices) {
		return false
	}
	return strings.EqualFold(q.Choices[n-1], correct)
}

// Done reports whether every question has been answered
func (q *Quiz) Done() bool {
	return len(q.results) >= len(q.questions)
}

// Score returns the number of correct answers so far
func (q *Quiz) Score() int {
	score := 0
	for _, r := range q.results {
		if r.Correct {
			score++
		}
	}
	return score
}

// Results returns the answered questions in order
func (q *Quiz) Results() []Result {
	return append([]Result(nil), q.results...)
}

// Retry starts a fresh round of the same size with a new random order
func (q *Quiz) Retry() {
	q.start()
}
