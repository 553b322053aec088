package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "en-us", "en-gb", "en-us+f3")
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultConfig returns the default configuration for an English voice
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "en-us",
		Speed:     140,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeak provides an interface to the espeak-ng text-to-speech engine
type ESpeak struct {
	config *ESpeakConfig
}

// New creates a new ESpeak instance with the given configuration
func New(config *ESpeakConfig) (*ESpeak, error) {
	// Check if espeak-ng is installed
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	if config == nil {
		config = DefaultConfig()
	}

	return &ESpeak{config: config}, nil
}

// args builds the espeak-ng command line for text written to outputFile
func (e *ESpeak) args(text, outputFile string) []string {
	args := []string{
		"-v", e.config.Voice,
		"-s", strconv.Itoa(e.config.Speed),
		"-p", strconv.Itoa(e.config.Pitch),
		"-a", strconv.Itoa(e.config.Amplitude),
	}

	if e.config.WordGap > 0 {
		args = append(args, "-g", strconv.Itoa(e.config.WordGap))
	}

	return append(args, "-w", outputFile, text)
}

// GenerateWAV writes a WAV file for the given text
func (e *ESpeak) GenerateWAV(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", e.args(text, outputFile)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// GenerateMP3 generates an MP3 file through a temporary WAV file
func (e *ESpeak) GenerateMP3(ctx context.Context, text string, outputFile string) error {
	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
	defer os.Remove(tempWAV)

	if err := e.GenerateWAV(ctx, text, tempWAV); err != nil {
		return err
	}

	return ConvertWAVToMP3(ctx, tempWAV, outputFile)
}

// SetVoice updates the voice variant
func (e *ESpeak) SetVoice(voice string) {
	e.config.Voice = voice
}

// SetSpeed updates the speech speed
func (e *ESpeak) SetSpeed(speed int) {
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}
	e.config.Speed = speed
}

// SetPitch updates the pitch (0-99, 50 is default)
func (e *ESpeak) SetPitch(pitch int) {
	if pitch < 0 {
		pitch = 0
	} else if pitch > 99 {
		pitch = 99
	}
	e.config.Pitch = pitch
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ListVoices returns the English voice variants worth offering
func ListVoices() []string {
	return []string{
		"en-us",    // American English
		"en-us+m3", // American English, male variant
		"en-us+f3", // American English, female variant
		"en-gb",    // British English
		"en-gb+f2", // British English, female variant
	}
}

// ConvertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func ConvertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
