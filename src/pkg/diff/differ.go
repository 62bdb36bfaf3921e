package diff

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FileDiffer defines the interface for comparing file contents before and
// after a fix-mode hook rewrote them
type FileDiffer interface {
	// Diff compares two contents and returns a unified diff
	Diff(before, after []byte) (string, error)
	// HasChanges reports whether the two contents differ
	HasChanges(before, after []byte) bool
}

// Differ produces unified diffs of hook fixes
type Differ struct{}

// Ensure Differ implements FileDiffer
var _ FileDiffer = (*Differ)(nil)

// NewDiffer creates a new differ
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares two contents and returns a unified diff
func (d *Differ) Diff(before, after []byte) (string, error) {
	return d.unifiedDiff(before, after)
}

// DiffText compares two strings and returns a unified diff
func (d *Differ) DiffText(before, after string) (string, error) {
	return d.unifiedDiff([]byte(before), []byte(after))
}

// HasChanges reports whether the two contents differ
func (d *Differ) HasChanges(before, after []byte) bool {
	return !bytes.Equal(before, after)
}

// unifiedDiff uses system diff -u for a proper unified diff with context
func (d *Differ) unifiedDiff(before, after []byte) (string, error) {
	if bytes.Equal(before, after) {
		return "", nil
	}

	beforeFile, err := os.CreateTemp("", "before-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(beforeFile.Name())
	}()

	afterFile, err := os.CreateTemp("", "after-*")
	if err != nil {
		_ = beforeFile.Close()
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(afterFile.Name())
	}()

	if _, err := beforeFile.Write(before); err != nil {
		return "", fmt.Errorf("failed to write before content: %w", err)
	}
	if err := beforeFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close before file: %w", err)
	}

	if _, err := afterFile.Write(after); err != nil {
		return "", fmt.Errorf("failed to write after content: %w", err)
	}
	if err := afterFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close after file: %w", err)
	}

	cmd := exec.Command("diff", "-u", beforeFile.Name(), afterFile.Name())
	output, err := cmd.CombinedOutput()

	// diff returns exit code 1 when files differ (not an error)
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			// expected when files differ
		} else {
			return "", fmt.Errorf("diff command failed: %w", err)
		}
	}

	diffOutput := string(output)
	diffOutput = strings.ReplaceAll(diffOutput, beforeFile.Name(), "before")
	diffOutput = strings.ReplaceAll(diffOutput, afterFile.Name(), "after")

	return diffOutput, nil
}
