package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/vtree/internal/util"
	"github.com/brettbedarf/vtree/vpath"
)

// CLI verbosity values accepted by [ConfigOverride.LogLvl]
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.InfoLevel

	DefaultSeparator  = "/"
	DefaultCurrentDir = "."
	DefaultParentDir  = ".."

	DefaultDirectoryPrefix    = "dir"
	DefaultItemPrefix         = "item"
	DefaultSymbolicLinkPrefix = "link"

	// DefaultMatcher is the registered name of the wildcard matcher
	DefaultMatcher = "glob"
)

// Node kinds accepted in [ViewConfig.Filter]
const (
	KindDirectory    = "directory"
	KindItem         = "item"
	KindSymbolicLink = "symlink"
)

// Sort fields accepted in [SortKey.Field]
const (
	SortByName    = "name"
	SortByCreated = "created"
	SortByUpdated = "updated"
)

// SortKey is one key of a multi-key directory sort.
type SortKey struct {
	Field      string `yaml:"field" json:"field" toml:"field"`
	Descending bool   `yaml:"descending,omitempty" json:"descending,omitempty" toml:"descending,omitempty"`
}

// ViewConfig holds the presentation rules used when a directory's children
// are listed or walked.
type ViewConfig struct {
	Filter      []string  `yaml:"filter,omitempty" json:"filter,omitempty" toml:"filter,omitempty"` // Kinds shown; empty shows all
	GroupByType bool      `yaml:"group_by_type" json:"group_by_type" toml:"group_by_type"`          // Group by resolved node kind before sorting
	SortBy      []SortKey `yaml:"sort_by,omitempty" json:"sort_by,omitempty" toml:"sort_by,omitempty"`
}

// Config contains runtime configuration values for a namespace.
type Config struct {
	LogLvl util.LogLevel // Internal log level (Default info)

	Separator  string // Path separator (Default "/")
	CurrentDir string // Spelling of the current directory segment (Default ".")
	ParentDir  string // Spelling of the parent directory segment (Default "..")

	InvalidChars  []string // Substrings never allowed in a node name besides the separator
	ReservedNames []string // Names never allowed besides CurrentDir and ParentDir

	DirectoryPrefix    string // Auto-name prefix for directories (Default "dir")
	ItemPrefix         string // Auto-name prefix for items (Default "item")
	SymbolicLinkPrefix string // Auto-name prefix for symbolic links (Default "link")

	Matcher string // Registered pattern matcher name (Default "glob")

	View ViewConfig // Directory presentation rules (Default group by type, sort by name)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is a CLI style verbosity between 1 (error) and 5 (trace)
	LogLvl             *int        `yaml:"verbose,omitempty" json:"verbose,omitempty" toml:"verbose,omitempty"`
	Separator          *string     `yaml:"separator,omitempty" json:"separator,omitempty" toml:"separator,omitempty"`
	CurrentDir         *string     `yaml:"current_dir,omitempty" json:"current_dir,omitempty" toml:"current_dir,omitempty"`
	ParentDir          *string     `yaml:"parent_dir,omitempty" json:"parent_dir,omitempty" toml:"parent_dir,omitempty"`
	InvalidChars       *[]string   `yaml:"invalid_chars,omitempty" json:"invalid_chars,omitempty" toml:"invalid_chars,omitempty"`
	ReservedNames      *[]string   `yaml:"reserved_names,omitempty" json:"reserved_names,omitempty" toml:"reserved_names,omitempty"`
	DirectoryPrefix    *string     `yaml:"directory_prefix,omitempty" json:"directory_prefix,omitempty" toml:"directory_prefix,omitempty"`
	ItemPrefix         *string     `yaml:"item_prefix,omitempty" json:"item_prefix,omitempty" toml:"item_prefix,omitempty"`
	SymbolicLinkPrefix *string     `yaml:"symlink_prefix,omitempty" json:"symlink_prefix,omitempty" toml:"symlink_prefix,omitempty"`
	Matcher            *string     `yaml:"matcher,omitempty" json:"matcher,omitempty" toml:"matcher,omitempty"`
	View               *ViewConfig `yaml:"view,omitempty" json:"view,omitempty" toml:"view,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:             DefaultLogLvl,
		Separator:          DefaultSeparator,
		CurrentDir:         DefaultCurrentDir,
		ParentDir:          DefaultParentDir,
		InvalidChars:       []string{"\x00"},
		ReservedNames:      []string{},
		DirectoryPrefix:    DefaultDirectoryPrefix,
		ItemPrefix:         DefaultItemPrefix,
		SymbolicLinkPrefix: DefaultSymbolicLinkPrefix,
		Matcher:            DefaultMatcher,
		View:               DefaultView(),
	}
}

// DefaultView groups children by kind and sorts each group by name.
func DefaultView() ViewConfig {
	return ViewConfig{
		GroupByType: true,
		SortBy:      []SortKey{{Field: SortByName}},
	}
}

// NewConfig returns the defaults with override applied. A nil override
// yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = util.LevelFromVerbosity(*override.LogLvl)
	}
	if override.Separator != nil {
		c.Separator = *override.Separator
	}
	if override.CurrentDir != nil {
		c.CurrentDir = *override.CurrentDir
	}
	if override.ParentDir != nil {
		c.ParentDir = *override.ParentDir
	}
	if override.InvalidChars != nil {
		c.InvalidChars = *override.InvalidChars
	}
	if override.ReservedNames != nil {
		c.ReservedNames = *override.ReservedNames
	}
	if override.DirectoryPrefix != nil {
		c.DirectoryPrefix = *override.DirectoryPrefix
	}
	if override.ItemPrefix != nil {
		c.ItemPrefix = *override.ItemPrefix
	}
	if override.SymbolicLinkPrefix != nil {
		c.SymbolicLinkPrefix = *override.SymbolicLinkPrefix
	}
	if override.Matcher != nil {
		c.Matcher = *override.Matcher
	}
	if override.View != nil {
		c.View = *override.View
	}
}

// Syntax returns the path spellings of this configuration.
func (c *Config) Syntax() vpath.Syntax {
	return vpath.Syntax{
		Separator: c.Separator,
		Current:   c.CurrentDir,
		Parent:    c.ParentDir,
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports YAML (.yaml, .yml), JSON (.json) and TOML (.toml) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
