package hooks

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/IGLOU-EU/go-wildcard"

	"github.com/migops/upgrade-report/src/pkg/config"
)

// FileSelector defines the interface for selecting the files a hook runs on
type FileSelector interface {
	// ListFiles walks the tree root and returns all candidate files
	ListFiles(root string) ([]string, error)
	// Match filters candidate files through a hook's files/exclude/patterns
	Match(hook config.HookConfig, files []string) ([]string, error)
}

// Selector selects files for hooks
type Selector struct{}

// Ensure Selector implements FileSelector
var _ FileSelector = (*Selector)(nil)

// NewSelector creates a new file selector
func NewSelector() *Selector {
	return &Selector{}
}

// ListFiles walks the tree root and returns repo-relative paths of all
// regular files, skipping VCS metadata.
func (s *Selector) ListFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}

// Match filters candidate files through the hook's files regex, exclude
// regex and wildcard patterns. An empty files regex matches everything; any
// matching wildcard pattern includes the file.
func (s *Selector) Match(hook config.HookConfig, files []string) ([]string, error) {
	var filesRe, excludeRe *regexp.Regexp
	var err error

	if hook.Files != "" {
		filesRe, err = regexp.Compile(hook.Files)
		if err != nil {
			return nil, fmt.Errorf("invalid files pattern: %w", err)
		}
	}
	if hook.Exclude != "" {
		excludeRe, err = regexp.Compile(hook.Exclude)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern: %w", err)
		}
	}

	var selected []string
	for _, file := range files {
		if filesRe != nil && !filesRe.MatchString(file) {
			continue
		}
		if excludeRe != nil && excludeRe.MatchString(file) {
			continue
		}
		if len(hook.Patterns) > 0 && !matchAnyPattern(hook.Patterns, file) {
			continue
		}
		selected = append(selected, file)
	}

	return selected, nil
}

// matchAnyPattern reports whether the path matches any wildcard pattern,
// either against the full relative path or its base name.
func matchAnyPattern(patterns []string, file string) bool {
	base := file
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		base = file[idx+1:]
	}
	for _, pattern := range patterns {
		if wildcard.Match(pattern, file) || wildcard.Match(pattern, base) {
			return true
		}
	}
	return false
}
