package cli

import (
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordspeak/internal/audio"
)

// Settings is the resolved configuration: flags override environment
// variables, which override the config file, which overrides defaults.
type Settings struct {
	WordsDir string
	CacheDir string
	Addr     string
	LogLevel string

	Audio           *audio.Config
	Fallback        string        // Fallback provider name, empty for none
	BreakerFailures uint32        // 0 disables the circuit breaker
	BreakerCooldown time.Duration
}

// LoadSettings resolves the settings from viper. An empty cache directory
// falls back to DefaultCacheDir.
func LoadSettings() (*Settings, error) {
	defaults := NewFlags()
	setDefaults(defaults)

	s := &Settings{
		WordsDir:        viper.GetString("words.dir"),
		CacheDir:        viper.GetString("cache.dir"),
		Addr:            viper.GetString("server.addr"),
		LogLevel:        viper.GetString("log.level"),
		Fallback:        viper.GetString("audio.fallback"),
		BreakerFailures: viper.GetUint32("audio.breaker.failures"),
		BreakerCooldown: viper.GetDuration("audio.breaker.cooldown"),
		Audio: &audio.Config{
			Provider:          viper.GetString("audio.provider"),
			Timeout:           viper.GetDuration("audio.timeout"),
			ScriptCommand:     viper.GetString("audio.script.command"),
			ScriptArgs:        viper.GetStringSlice("audio.script.args"),
			ESpeakVoice:       viper.GetString("audio.espeak.voice"),
			OpenAIKey:         GetOpenAIKey(),
			OpenAIModel:       viper.GetString("audio.openai_model"),
			OpenAIVoice:       viper.GetString("audio.openai_voice"),
			OpenAISpeed:       viper.GetFloat64("audio.openai_speed"),
			OpenAIInstruction: viper.GetString("audio.openai_instruction"),
		},
	}

	if s.CacheDir == "" {
		dir, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		s.CacheDir = dir
	}

	return s, nil
}

// setDefaults registers defaults for keys that may be read without any
// bound flag, e.g. from tests or when embedding the packages
func setDefaults(f *Flags) {
	viper.SetDefault("words.dir", f.WordsDir)
	viper.SetDefault("server.addr", f.Addr)
	viper.SetDefault("log.level", f.LogLevel)
	viper.SetDefault("audio.provider", f.AudioProvider)
	viper.SetDefault("audio.script.command", f.ScriptCommand)
	viper.SetDefault("audio.script.args", f.ScriptArgs)
	viper.SetDefault("audio.espeak.voice", f.ESpeakVoice)
	viper.SetDefault("audio.breaker.failures", f.BreakerFailures)
	viper.SetDefault("audio.breaker.cooldown", f.BreakerCooldown)
	viper.SetDefault("audio.openai_model", f.OpenAIModel)
	viper.SetDefault("audio.openai_voice", f.OpenAIVoice)
	viper.SetDefault("audio.openai_speed", f.OpenAISpeed)
	viper.SetDefault("audio.openai_instruction", f.OpenAIInstruction)
}
