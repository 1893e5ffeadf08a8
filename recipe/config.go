package recipe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where init writes a starter recipe.
const DefaultPath = ".surgeon.yaml"

// ErrInvalidRecipe reports an edit that cannot be applied as written.
var ErrInvalidRecipe = errors.New("invalid recipe")

// Config is a recipe: the files to consider and the edits to make to the
// class each of them declares.
type Config struct {
	Name       string   `yaml:"name" toml:"name"`
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	Edits      []Edit   `yaml:"edits" toml:"edits"`
}

// Edit describes changes to one class, or to every class when Class is empty.
// Class matches the name a class has before the recipe runs.
type Edit struct {
	Class      string   `yaml:"class,omitempty" toml:"class,omitempty"`
	Rename     string   `yaml:"rename,omitempty" toml:"rename,omitempty"`
	Extends    string   `yaml:"extends,omitempty" toml:"extends,omitempty"`
	Implements []string `yaml:"implements,omitempty" toml:"implements,omitempty"`
	Wrap       []Wrap   `yaml:"wrap,omitempty" toml:"wrap,omitempty"`
}

// Wrap surrounds the body of Method with Top and Bottom.
type Wrap struct {
	Method string `yaml:"method" toml:"method"`
	Top    string `yaml:"top,omitempty" toml:"top,omitempty"`
	Bottom string `yaml:"bottom,omitempty" toml:"bottom,omitempty"`
}

func (e Edit) empty() bool {
	return e.Rename == "" && e.Extends == "" && len(e.Implements) == 0 && len(e.Wrap) == 0
}

// DefaultConfig returns a recipe that touches .php files and edits nothing.
func DefaultConfig() Config {
	return Config{
		Name:       "surgeon",
		Extensions: []string{".php"},
		Edits:      []Edit{},
	}
}

// Validate reports the first edit that has nothing to do or a wrap without
// a method name.
func (c Config) Validate() error {
	for i, edit := range c.Edits {
		if edit.empty() {
			return fmt.Errorf("%w: edit %d has no changes", ErrInvalidRecipe, i)
		}
		for _, w := range edit.Wrap {
			if w.Method == "" {
				return fmt.Errorf("%w: edit %d wraps a method without a name", ErrInvalidRecipe, i)
			}
		}
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a recipe from path. Files ending in .toml are decoded as TOML,
// anything else as YAML. An empty path yields DefaultConfig.
func Load(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	if isTOML(path) {
		dec := toml.NewDecoder(f)
		dec.DisallowUnknownFields()
		err = dec.Decode(&config)
	} else {
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		err = dec.Decode(&config)
		// an empty document keeps the defaults
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(config.Extensions) == 0 {
		config.Extensions = DefaultConfig().Extensions
	}
	return config, config.Validate()
}

// Write stores config at path in the format its extension names.
func Write(path string, config Config) error {
	if path == "" {
		path = DefaultPath
	}

	var (
		d   []byte
		err error
	)
	if isTOML(path) {
		d, err = toml.Marshal(config)
	} else {
		d, err = yaml.Marshal(config)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, d, 0o644)
}
