package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/migops/upgrade-report/src/pkg/config"
)

// runBuiltin runs one of the builtin hygiene checks over the selected files.
// With fix enabled, offending files are rewritten in place; violations are
// reported either way.
func runBuiltin(check, root string, files []string, fix bool) ([]config.Violation, error) {
	var violations []config.Violation

	for _, file := range files {
		path := filepath.Join(root, file)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		var fixed []byte
		var msg string

		switch check {
		case config.BuiltinTrailingWhitespace:
			fixed = stripTrailingWhitespace(content)
			msg = "trailing whitespace"
		case config.BuiltinEndOfFile:
			fixed = normalizeEndOfFile(content)
			msg = "file does not end with exactly one newline"
		default:
			return nil, fmt.Errorf("unknown builtin check %q", check)
		}

		if string(fixed) == string(content) {
			continue
		}

		violations = append(violations, config.Violation{
			Message: msg,
			File:    file,
		})

		if fix {
			info, err := os.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", file, err)
			}
			if err := os.WriteFile(path, fixed, info.Mode().Perm()); err != nil {
				return nil, fmt.Errorf("failed to rewrite %s: %w", file, err)
			}
		}
	}

	return violations, nil
}

// stripTrailingWhitespace removes spaces and tabs at end of lines. A line
// terminator's carriage return is kept, so CRLF files stay CRLF.
func stripTrailingWhitespace(content []byte) []byte {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasSuffix(line, "\r") {
			lines[i] = strings.TrimRight(strings.TrimSuffix(line, "\r"), " \t") + "\r"
			continue
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	return []byte(strings.Join(lines, "\n"))
}

// normalizeEndOfFile makes non-empty content end with exactly one newline.
func normalizeEndOfFile(content []byte) []byte {
	if len(content) == 0 {
		return content
	}
	trimmed := strings.TrimRight(string(content), "\n")
	if trimmed == "" {
		return []byte("\n")
	}
	return []byte(trimmed + "\n")
}
