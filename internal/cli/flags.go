package cli

import (
	"time"

	"codeberg.org/snonux/wordspeak/internal/audio"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	WordsDir string
	CacheDir string
	LogLevel string
	Addr     string

	// Audio flags
	AudioProvider   string
	AudioFallback   string
	AudioTimeout    time.Duration
	ScriptCommand   string
	ScriptArgs      []string
	ESpeakVoice     string
	BreakerFailures uint32
	BreakerCooldown time.Duration

	// OpenAI flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	defaults := audio.DefaultProviderConfig()
	return &Flags{
		WordsDir:          "input_file/words",
		LogLevel:          "info",
		Addr:              "127.0.0.1:8765",
		AudioProvider:     defaults.Provider,
		ScriptCommand:     defaults.ScriptCommand,
		ScriptArgs:        defaults.ScriptArgs,
		ESpeakVoice:       defaults.ESpeakVoice,
		BreakerCooldown:   30 * time.Second,
		OpenAIModel:       defaults.OpenAIModel,
		OpenAIVoice:       defaults.OpenAIVoice,
		OpenAISpeed:       defaults.OpenAISpeed,
		OpenAIInstruction: defaults.OpenAIInstruction,
	}
}
