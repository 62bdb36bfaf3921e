package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ConfigLoader defines the interface for loading configuration files
type ConfigLoader interface {
	// LoadHooksConfig loads the hooks configuration from a YAML file
	LoadHooksConfig(path string) (*HooksConfig, error)
	// ValidateHooksConfig validates the hooks configuration
	ValidateHooksConfig(config *HooksConfig) error
}

// Loader handles loading configuration files
type Loader struct{}

// Ensure Loader implements ConfigLoader
var _ ConfigLoader = (*Loader)(nil)

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadHooksConfig loads the hooks configuration from a YAML file
func (l *Loader) LoadHooksConfig(path string) (*HooksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var config HooksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	return &config, nil
}

// ValidateHooksConfig validates the hooks configuration
func (l *Loader) ValidateHooksConfig(config *HooksConfig) error {
	if len(config.Hooks) == 0 {
		return fmt.Errorf("no hooks defined in hooks config")
	}

	for id, hook := range config.Hooks {
		if hook.Name == "" {
			return fmt.Errorf("hook %s: name is required", id)
		}

		switch hook.Type {
		case HookTypeCommand:
			if hook.Entry == "" {
				return fmt.Errorf("hook %s: entry is required for command hooks", id)
			}
		case HookTypeRego:
			if hook.FilePath == "" {
				return fmt.Errorf("hook %s: filePath is required for rego hooks", id)
			}
		case HookTypeBuiltin:
			if hook.Check != BuiltinTrailingWhitespace && hook.Check != BuiltinEndOfFile {
				return fmt.Errorf("hook %s: unknown builtin check %q", id, hook.Check)
			}
		case "":
			return fmt.Errorf("hook %s: type is required", id)
		default:
			return fmt.Errorf("hook %s: unsupported type %s (must be 'command', 'rego' or 'builtin')", id, hook.Type)
		}

		if hook.Files != "" {
			if _, err := regexp.Compile(hook.Files); err != nil {
				return fmt.Errorf("hook %s: invalid files pattern: %w", id, err)
			}
		}
		if hook.Exclude != "" {
			if _, err := regexp.Compile(hook.Exclude); err != nil {
				return fmt.Errorf("hook %s: invalid exclude pattern: %w", id, err)
			}
		}

		// Validate enforcement dates are in order if set
		if hook.Enforcement.InEffectAfter != nil && hook.Enforcement.IsWarningAfter != nil {
			if hook.Enforcement.IsWarningAfter.Before(*hook.Enforcement.InEffectAfter) {
				return fmt.Errorf("hook %s: isWarningAfter cannot be before inEffectAfter", id)
			}
		}
		if hook.Enforcement.IsWarningAfter != nil && hook.Enforcement.IsBlockingAfter != nil {
			if hook.Enforcement.IsBlockingAfter.Before(*hook.Enforcement.IsWarningAfter) {
				return fmt.Errorf("hook %s: isBlockingAfter cannot be before isWarningAfter", id)
			}
		}
		if hook.Enforcement.InEffectAfter != nil && hook.Enforcement.IsBlockingAfter != nil {
			if hook.Enforcement.IsBlockingAfter.Before(*hook.Enforcement.InEffectAfter) {
				return fmt.Errorf("hook %s: isBlockingAfter cannot be before inEffectAfter", id)
			}
		}
	}

	return nil
}
