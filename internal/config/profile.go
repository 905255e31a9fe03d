package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is a generation profile, usually read from jsynth.yaml.
//
// Fields omitted from the document keep their defaults, so a profile only
// needs to spell out what it changes:
//
//	seed: 1337
//	budget:
//	  max_instructions: 500
//	probabilities:
//	  reuse_property: 0.8
//	choices:
//	  import: {none: 0, memory: 1, table: 1}
//	weights:
//	  WhileLoop: 40
//	  WasmInstance: 0
type Profile struct {
	// Seed fixes the random seed. Nil means the caller picks one.
	Seed *int64 `yaml:"seed,omitempty"`

	Budget        Budget        `yaml:"budget"`
	Probabilities Probabilities `yaml:"probabilities"`
	Ranges        Ranges        `yaml:"ranges"`
	Choices       Choices       `yaml:"choices"`

	// Weights overrides catalog weights by strategy name. A weight of zero
	// disables the strategy for random selection.
	Weights map[string]int `yaml:"weights,omitempty"`
}

// DefaultProfile returns a profile holding only defaults.
func DefaultProfile() *Profile {
	return &Profile{
		Budget:        DefaultBudget(),
		Probabilities: DefaultProbabilities(),
		Ranges:        DefaultRanges(),
		Choices:       DefaultChoices(),
	}
}

// LoadProfile reads and parses a profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	return ParseProfile(data, path)
}

// ParseProfile parses profile content from bytes.
// The path argument is used only for error messages.
func ParseProfile(data []byte, path string) (*Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Marshal renders the complete profile, defaults included, as YAML that
// ParseProfile reads back to an equal profile.
func (p *Profile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}
	return data, nil
}

// Validate checks every section of the profile.
func (p *Profile) Validate() error {
	if err := p.Budget.Validate(); err != nil {
		return err
	}
	if err := p.Probabilities.Validate(); err != nil {
		return err
	}
	if err := p.Ranges.Validate(); err != nil {
		return err
	}
	if err := p.Choices.Validate(); err != nil {
		return err
	}
	for name, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("weight of %s must not be negative", name)
		}
	}
	return nil
}

// FindProfile searches for jsynth.yaml starting from dir and walking up
// to parent directories. It returns an empty path and nil error when no
// profile exists.
func FindProfile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ProfileFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
