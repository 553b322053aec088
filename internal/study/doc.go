// Package study implements flashcard browsing and the word quiz on top of a
// loaded word list.
package study
