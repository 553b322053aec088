package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)

	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	if cmd.Use != "wordspeak" {
		t.Errorf("Expected Use to be 'wordspeak', got %s", cmd.Use)
	}
	if !strings.Contains(cmd.Short, "pronunciation") {
		t.Errorf("Unexpected Short description: %s", cmd.Short)
	}

	for name := range flagKeys {
		t.Run("flag_"+name, func(t *testing.T) {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("Expected persistent flag %s to exist", name)
			}
		})
	}
	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("Expected persistent flag config to exist")
	}
}

func TestSetupFlagsDefaults(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())

	tests := []struct {
		flag string
		want string
	}{
		{"words", "input_file/words"},
		{"audio-provider", "script"},
		{"script", "python3"},
		{"script-arg", "[python/tts_engine.py]"},
		{"audio-timeout", "0s"},
		{"breaker-failures", "0"},
		{"addr", "127.0.0.1:8765"},
	}

	for _, tt := range tests {
		f := cmd.PersistentFlags().Lookup(tt.flag)
		if f == nil {
			t.Fatalf("flag %s not found", tt.flag)
		}
		if f.DefValue != tt.want {
			t.Errorf("flag %s default = %q, want %q", tt.flag, f.DefValue, tt.want)
		}
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())

	cmd.PersistentFlags().Set("words", "/test/words")
	cmd.PersistentFlags().Set("audio-provider", "espeak")
	cmd.PersistentFlags().Set("openai-model", "tts-1-hd")
	cmd.PersistentFlags().Set("audio-timeout", "45s")

	tests := []struct {
		key  string
		want string
	}{
		{"words.dir", "/test/words"},
		{"audio.provider", "espeak"},
		{"audio.openai_model", "tts-1-hd"},
		{"audio.timeout", "45s"},
	}

	for _, tt := range tests {
		if got := viper.GetString(tt.key); got != tt.want {
			t.Errorf("viper %s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "with config file",
			content: `audio:
  provider: openai
  openai_key: test-key
words:
  dir: /test/words`,
		},
		{
			name: "without config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			cfgFile := ""
			if tt.content != "" {
				cfgFile = filepath.Join(t.TempDir(), "wordspeak.yaml")
				if err := os.WriteFile(cfgFile, []byte(tt.content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
			}

			InitConfig(cfgFile)

			t.Setenv("WORDSPEAK_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			t.Setenv("WORDSPEAK_SERVER_ADDR", "0.0.0.0:9000")
			if viper.GetString("server.addr") != "0.0.0.0:9000" {
				t.Error("Nested key not read from environment")
			}

			if tt.content != "" && viper.GetString("words.dir") != "/test/words" {
				t.Errorf("words.dir = %q, want /test/words", viper.GetString("words.dir"))
			}
		})
	}
}

func TestGetOpenAIKey(t *testing.T) {
	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{"from environment", "env-test-key", "config-test-key", "env-test-key"},
		{"from config when no env", "", "config-test-key", "config-test-key"},
		{"empty when neither set", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv("OPENAI_API_KEY", tt.envKey)

			if tt.configKey != "" {
				viper.Set("audio.openai_key", tt.configKey)
			}

			if got := GetOpenAIKey(); got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDefaultCacheDir(t *testing.T) {
	dir, err := DefaultCacheDir()
	if err != nil {
		t.Fatalf("DefaultCacheDir() unexpected error: %v", err)
	}
	if filepath.Base(dir) != "audio_cache" {
		t.Errorf("DefaultCacheDir() = %q, want .../audio_cache", dir)
	}
	if !strings.Contains(dir, "wordspeak") {
		t.Errorf("DefaultCacheDir() = %q, expected the application name in the path", dir)
	}
}
