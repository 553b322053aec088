package cli

import (
	"fmt"
	"os"
	"strings"

	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wordspeak/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordspeak",
		Short: "English vocabulary trainer with cached pronunciation",
		Long: `wordspeak loads english/korean word lists, speaks them through a
text-to-speech engine and caches every pronunciation on disk.

Word lists are .csv or .txt files in the words directory. Each distinct
text is synthesized once; later requests play the cached MP3.

Examples:
  wordspeak                        # Serve the study API (default)
  wordspeak words                  # Print the loaded word list
  wordspeak speak "good morning"   # Synthesize and cache one phrase
  wordspeak quiz --size 25         # Take a quiz in the terminal
  wordspeak export --csv           # Write an Anki import file`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wordspeak.yaml)")
	pf.StringVarP(&flags.WordsDir, "words", "w", flags.WordsDir, "Directory holding .csv and .txt word lists")
	pf.StringVar(&flags.CacheDir, "cache-dir", "", "Audio cache directory (default is the per-user data directory)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.Addr, "addr", flags.Addr, "Listen address of the study API")

	// Audio flags
	pf.StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Speech provider: script, espeak or openai")
	pf.StringVar(&flags.AudioFallback, "audio-fallback", "", "Provider to use when the primary one fails (empty disables)")
	pf.DurationVar(&flags.AudioTimeout, "audio-timeout", 0, "Per-synthesis timeout, 0 waits indefinitely")
	pf.StringVar(&flags.ScriptCommand, "script", flags.ScriptCommand, "Synthesis program for the script provider")
	pf.StringSliceVar(&flags.ScriptArgs, "script-arg", flags.ScriptArgs, "Leading arguments passed to the synthesis program")
	pf.StringVar(&flags.ESpeakVoice, "espeak-voice", flags.ESpeakVoice, "espeak-ng voice, e.g. en-us or en-gb")
	pf.Uint32Var(&flags.BreakerFailures, "breaker-failures", flags.BreakerFailures, "Consecutive synthesis failures before the provider is suspended (0, the default, disables)")
	pf.DurationVar(&flags.BreakerCooldown, "breaker-cooldown", flags.BreakerCooldown, "How long a suspended provider stays suspended")

	// OpenAI flags
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	pf.StringVar(&flags.OpenAIInstruction, "openai-instruction", flags.OpenAIInstruction, "Voice instructions for the gpt-4o-mini-tts model")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

// flagKeys maps persistent flags to their configuration keys
var flagKeys = map[string]string{
	"words":              "words.dir",
	"cache-dir":          "cache.dir",
	"log-level":          "log.level",
	"addr":               "server.addr",
	"audio-provider":     "audio.provider",
	"audio-fallback":     "audio.fallback",
	"audio-timeout":      "audio.timeout",
	"script":             "audio.script.command",
	"script-arg":         "audio.script.args",
	"espeak-voice":       "audio.espeak.voice",
	"breaker-failures":   "audio.breaker.failures",
	"breaker-cooldown":   "audio.breaker.cooldown",
	"openai-model":       "audio.openai_model",
	"openai-voice":       "audio.openai_voice",
	"openai-speed":       "audio.openai_speed",
	"openai-instruction": "audio.openai_instruction",
}

func bindFlagsToViper(cmd *cobra.Command) {
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			viper.BindPFlag(key, f)
		}
	})
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wordspeak" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wordspeak")
	}

	// Environment variables, e.g. WORDSPEAK_AUDIO_PROVIDER
	viper.SetEnvPrefix("WORDSPEAK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.openai_key")
}

// DefaultCacheDir returns the per-user audio cache directory
func DefaultCacheDir() (string, error) {
	scope := gap.NewScope(gap.User, "wordspeak")
	dir, err := scope.DataPath("audio_cache")
	if err != nil {
		return "", fmt.Errorf("failed to determine cache directory: %w", err)
	}
	return dir, nil
}
