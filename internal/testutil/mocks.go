package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MockProvider stands in for a speech synthesizer. It records calls and
// writes Audio to the requested file unless Err is set.
type MockProvider struct {
	ProviderName string
	Audio        []byte
	Err          error
	AvailableErr error

	// Hook runs before the file is written; tests use it to block a call
	Hook func(text string)

	mu    sync.Mutex
	calls []string
}

// GenerateAudio mocks speech synthesis
func (m *MockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.Hook != nil {
		m.Hook(text)
	}

	if m.Err != nil {
		return m.Err
	}

	data := m.Audio
	if data == nil {
		data = (&TestDataGenerator{}).GenerateAudioData()
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("mock write failed: %w", err)
	}
	return nil
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable returns AvailableErr
func (m *MockProvider) IsAvailable() error {
	return m.AvailableErr
}

// Calls returns the texts passed to GenerateAudio so far
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how often GenerateAudio was called
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateWordPairs returns a small english/korean word list in CSV form
func (g *TestDataGenerator) GenerateWordPairs() string {
	return "apple,사과\nbanana,바나나\ncherry,체리\ngrape,포도\nlemon,레몬\n"
}

// GenerateAudioData generates mock audio data
func (g *TestDataGenerator) GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
