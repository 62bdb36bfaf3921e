package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/migops/upgrade-report/src/pkg/report"
)

// Feed is the on-disk message feed emitted by the upgrade engine: the target
// version and the collected messages in emission order.
type Feed struct {
	Version  string  `yaml:"version"`
	Messages []Entry `yaml:"messages"`
}

// Entry is one feed message. Exactly one of View, Record or Text carries the
// body; Category decides how it is rendered.
type Entry struct {
	Category string            `yaml:"category"`
	View     *report.ViewRef   `yaml:"view,omitempty"`
	Record   *report.RecordRef `yaml:"record,omitempty"`
	Text     string            `yaml:"text,omitempty"`
	Raw      bool              `yaml:"raw,omitempty"`
}

// FeedLoader defines the interface for loading message feeds
type FeedLoader interface {
	// Load reads a feed file and builds the report payload
	Load(path string) (*report.Report, error)
}

// Loader loads message feeds
type Loader struct{}

// Ensure Loader implements FeedLoader
var _ FeedLoader = (*Loader)(nil)

// NewLoader creates a new feed loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a feed file and builds the report payload, preserving the feed
// order of categories and messages.
func (l *Loader) Load(path string) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message feed: %w", err)
	}

	var feed Feed
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse message feed: %w", err)
	}

	return l.Build(&feed)
}

// Build turns a parsed feed into the report payload.
func (l *Loader) Build(feed *Feed) (*report.Report, error) {
	if feed.Version == "" {
		return nil, fmt.Errorf("message feed has no version")
	}

	rep := report.New(feed.Version)
	for i, entry := range feed.Messages {
		if entry.Category == "" {
			return nil, fmt.Errorf("message %d: category is required", i)
		}

		switch {
		case entry.View != nil:
			rep.Add(entry.Category, report.Message{View: entry.View})
		case entry.Record != nil:
			rep.Add(entry.Category, report.Message{Record: entry.Record})
		case entry.Text != "":
			rep.Add(entry.Category, report.Message{Text: entry.Text, Raw: entry.Raw})
		default:
			return nil, fmt.Errorf("message %d: one of view, record or text is required", i)
		}
	}

	return rep, nil
}
