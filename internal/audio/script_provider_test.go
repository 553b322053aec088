package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/wordspeak/internal/testutil"
)

func TestScriptProviderGenerateAudio(t *testing.T) {
	script := testutil.WriteSynthScript(t, `printf 'ID3:%s' "$1" > "$2"`)
	provider := NewScriptProvider(script)

	output := filepath.Join(t.TempDir(), "hello.mp3")
	if err := provider.GenerateAudio(context.Background(), "hello world", output); err != nil {
		t.Fatalf("GenerateAudio() unexpected error: %v", err)
	}

	testutil.AssertFileContent(t, output, []byte("ID3:hello world"))
}

func TestScriptProviderLeadingArgs(t *testing.T) {
	// The leading argument ends up as $1, followed by text and output
	script := testutil.WriteSynthScript(t, `printf '%s|%s' "$1" "$2" > "$3"`)
	provider := NewScriptProvider(script, "--voice")

	output := filepath.Join(t.TempDir(), "out.mp3")
	if err := provider.GenerateAudio(context.Background(), "apple", output); err != nil {
		t.Fatalf("GenerateAudio() unexpected error: %v", err)
	}

	testutil.AssertFileContent(t, output, []byte("--voice|apple"))
}

func TestScriptProviderFailure(t *testing.T) {
	script := testutil.WriteSynthScript(t, `
echo "voice unavailable" >&2
exit 3
`)
	provider := NewScriptProvider(script)

	output := filepath.Join(t.TempDir(), "out.mp3")
	err := provider.GenerateAudio(context.Background(), "hello", output)
	if err == nil {
		t.Fatal("GenerateAudio() expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "voice unavailable") {
		t.Errorf("Expected script output in error, got: %v", err)
	}
	testutil.AssertFileNotExists(t, output)
}

func TestScriptProviderTimeout(t *testing.T) {
	script := testutil.WriteSynthScript(t, `exec sleep 5`)
	provider := NewScriptProvider(script)
	provider.SetTimeout(100 * time.Millisecond)

	start := time.Now()
	err := provider.GenerateAudio(context.Background(), "slow", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil {
		t.Fatal("GenerateAudio() expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("GenerateAudio() took %v, expected the timeout to stop it", elapsed)
	}
}

func TestScriptProviderRejectsEmptyText(t *testing.T) {
	script := testutil.WriteSynthScript(t, `touch "$2"`)
	provider := NewScriptProvider(script)

	output := filepath.Join(t.TempDir(), "out.mp3")
	if err := provider.GenerateAudio(context.Background(), "   ", output); err == nil {
		t.Error("GenerateAudio() expected error for blank text")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("Script should not run for blank text")
	}
}

func TestScriptProviderIsAvailable(t *testing.T) {
	script := testutil.WriteSynthScript(t, `exit 0`)
	if err := NewScriptProvider(script).IsAvailable(); err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}

	missing := NewScriptProvider(filepath.Join(t.TempDir(), "no-such-synth"))
	if err := missing.IsAvailable(); err == nil {
		t.Error("IsAvailable() expected error for missing command")
	}
}
