package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Card represents a single Anki flashcard
type Card struct {
	English   string // The english word or sentence
	Korean    string // Its korean meaning, may be empty
	AudioFile string // Path to the pronunciation audio, may be empty
	Source    string // Name of the word list file the entry came from
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: false,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{options: options}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// Cards returns the collected cards
func (g *Generator) Cards() []Card {
	return g.cards
}

// GenerateCSV writes one row per card: english, korean, sound tag, source.
// Anki expects the audio files themselves in its collection.media folder.
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		if err := writer.Write([]string{"English", "Korean", "Audio", "Source"}); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.English,
			card.Korean,
			soundTag(card.AudioFile),
			card.Source,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	return file.Close()
}

// soundTag formats the audio file reference for Anki: [sound:name.mp3]
func soundTag(audioFile string) string {
	if audioFile == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}

// GenerateAPKG creates a .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkg := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		apkg.AddCard(card)
	}
	return apkg.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
	}
	return
}
