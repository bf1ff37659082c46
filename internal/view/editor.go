// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/derailed/tview"
	"github.com/wI2L/jsondiff"

	"github.com/evcon/evcon/internal/resource"
)

// EditorRunner opens the editor on a file and returns its exit code.
type EditorRunner func(path string) (int, error)

// EditSession represents an in-progress edit of a JSON document.
type EditSession struct {
	Title    string
	original []byte
	tempFile string
	errorMsg string
	run      EditorRunner
}

// NewEditSession creates a session editing the JSON rendition of in.
func NewEditSession(title string, in any, run EditorRunner) (*EditSession, error) {
	raw, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", title, err)
	}

	return &EditSession{Title: title, original: raw, run: run}, nil
}

// Run loops on the editor until the document decodes into out. It returns
// resource.ErrCanceled when the editor exits with an error and
// resource.ErrNoChanges when the document was left untouched.
func (e *EditSession) Run(out any) error {
	defer e.Cleanup()

	current := e.original
	for {
		content, err := e.edit(current)
		if err != nil {
			return err
		}
		if e.errorMsg != "" && bytes.Equal(bytes.TrimSpace(content), bytes.TrimSpace(current)) {
			return resource.ErrCanceled
		}
		patch, err := jsondiff.CompareJSON(e.original, content)
		if err != nil {
			e.errorMsg = fmt.Sprintf("invalid JSON: %v", err)
			current = content
			continue
		}
		if len(patch) == 0 {
			if e.errorMsg != "" {
				return resource.ErrCanceled
			}
			return resource.ErrNoChanges
		}
		if err := json.Unmarshal(content, out); err != nil {
			e.errorMsg = err.Error()
			current = content
			continue
		}

		return nil
	}
}

func (e *EditSession) edit(content []byte) ([]byte, error) {
	if e.tempFile == "" {
		f, err := os.CreateTemp("", "evcon-edit-*.json")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		e.tempFile = f.Name()
		_ = f.Close()
	}
	if err := os.WriteFile(e.tempFile, e.withError(content), 0o600); err != nil {
		return nil, err
	}

	code, err := e.run(e.tempFile)
	if err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}
	if code != 0 {
		return nil, resource.ErrCanceled
	}

	raw, err := os.ReadFile(e.tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	return stripErrorComment(raw), nil
}

func (e *EditSession) withError(content []byte) []byte {
	if e.errorMsg == "" {
		return append(bytes.TrimRight(content, "\n"), '\n')
	}

	var buf bytes.Buffer
	buf.WriteString("// ERROR: " + e.errorMsg + "\n")
	buf.WriteString("// Fix the issue below and save, or save without changes to cancel.\n")
	buf.WriteString("// ---\n\n")
	buf.Write(bytes.TrimRight(content, "\n"))
	buf.WriteByte('\n')

	return buf.Bytes()
}

// Cleanup removes the temporary file.
func (e *EditSession) Cleanup() {
	if e.tempFile != "" {
		_ = os.Remove(e.tempFile)
		e.tempFile = ""
	}
}

// SuspendRunner runs the editor while the application is suspended.
func SuspendRunner(app *tview.Application) EditorRunner {
	return func(path string) (int, error) {
		var (
			code   int
			runErr error
		)
		suspended := app.Suspend(func() {
			cmd := exec.Command(getEditor(), path)
			cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
			if err := cmd.Run(); err != nil {
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) {
					code = exitErr.ExitCode()
					return
				}
				runErr = err
			}
		})
		if !suspended {
			return 1, errors.New("failed to suspend application")
		}

		return code, runErr
	}
}

// getEditor checks $EDITOR, then $VISUAL, then falls back to vim or nano.
func getEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if _, err := exec.LookPath("vim"); err == nil {
		return "vim"
	}
	return "nano"
}

// stripErrorComment removes the error comment block, and the blank lines
// after it, from the top of content.
func stripErrorComment(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	start := 0
	for i, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("//")) {
			start = i + 1
			continue
		}
		break
	}
	if start == 0 {
		return content
	}
	for start < len(lines) && len(bytes.TrimSpace(lines[start])) == 0 {
		start++
	}

	return bytes.Join(lines[start:], []byte("\n"))
}
