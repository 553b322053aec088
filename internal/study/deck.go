package study

import "codeberg.org/snonux/wordspeak/internal/wordlist"

// Deck walks through a word list one card at a time. Moving past either end
// wraps around. An empty deck ignores navigation.
type Deck struct {
	words    wordlist.WordList
	index    int
	revealed bool
}

// NewDeck creates a deck positioned on the first card
func NewDeck(words wordlist.WordList) *Deck {
	return &Deck{words: words}
}

// Len returns the number of cards
func (d *Deck) Len() int {
	return len(d.words)
}

// Index returns the zero-based position of the current card
func (d *Deck) Index() int {
	return d.index
}

// Current returns the current card; ok is false for an empty deck
func (d *Deck) Current() (entry wordlist.WordEntry, ok bool) {
	if len(d.words) == 0 {
		return wordlist.WordEntry{}, false
	}
	return d.words[d.index], true
}

// Revealed reports whether the meaning side is showing
func (d *Deck) Revealed() bool {
	return d.revealed
}

// Flip toggles the meaning side
func (d *Deck) Flip() {
	if len(d.words) > 0 {
		d.revealed = !d.revealed
	}
}

// Next moves to the following card
func (d *Deck) Next() {
	d.move(1)
}

// Prev moves to the preceding card
func (d *Deck) Prev() {
	d.move(-1)
}

func (d *Deck) move(step int) {
	n := len(d.words)
	if n == 0 {
		return
	}
	d.index = ((d.index+step)%n + n) % n
	d.revealed = false
}
