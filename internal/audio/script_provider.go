package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ScriptProvider runs an external text-to-speech program. The program gets
// the text and the destination file as its last two arguments and must exit
// zero once the file is written.
type ScriptProvider struct {
	command string
	args    []string
	timeout time.Duration
}

// NewScriptProvider creates a provider running command with the given
// leading arguments
func NewScriptProvider(command string, args ...string) *ScriptProvider {
	return &ScriptProvider{
		command: command,
		args:    args,
	}
}

// SetTimeout bounds each synthesis run; 0 disables the bound
func (p *ScriptProvider) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Timeout returns the per-run bound, 0 when unbounded
func (p *ScriptProvider) Timeout() time.Duration {
	return p.timeout
}

// GenerateAudio runs the script and waits for it to exit
func (p *ScriptProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	args := append(append([]string{}, p.args...), text, outputFile)
	cmd := exec.CommandContext(ctx, p.command, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\nOutput: %s", p.Name(), err, strings.TrimSpace(string(output)))
	}

	return nil
}

// Name returns the provider name
func (p *ScriptProvider) Name() string {
	return "script:" + p.command
}

// IsAvailable checks that the command can be found
func (p *ScriptProvider) IsAvailable() error {
	if _, err := exec.LookPath(p.command); err != nil {
		return fmt.Errorf("%s is not installed or not in PATH: %w", p.command, err)
	}
	return nil
}
