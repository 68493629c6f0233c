package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mbqc/internal/compiler"
	"github.com/roach88/mbqc/internal/pattern"
	"github.com/roach88/mbqc/internal/target"
)

// Scenario defines a lowering test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Target is the backend to lower through.
	Target string `yaml:"target"`

	// Pattern is an inline pattern document.
	Pattern *pattern.Document `yaml:"pattern,omitempty"`

	// PatternFile is a pattern source, resolved relative to the scenario
	// file by LoadScenario.
	PatternFile string `yaml:"pattern_file,omitempty"`

	// PatternName selects one pattern when PatternFile declares several.
	PatternName string `yaml:"pattern_name,omitempty"`

	// MaxCommands overrides the command budget. Negative disables it.
	MaxCommands int `yaml:"max_commands,omitempty"`

	// RunID is the fixed run id recorded with the conversion.
	// Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect lists what a lowering must produce. Unset fields are not checked.
type Expect struct {
	Error    string   `yaml:"error,omitempty"`
	Outputs  []int    `yaml:"outputs,omitempty"`
	Qubits   *int     `yaml:"qubits,omitempty"`
	Bits     *int     `yaml:"bits,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`
	Contains []string `yaml:"contains,omitempty"`
	Absent   []string `yaml:"absent,omitempty"`
	Golden   bool     `yaml:"golden,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.PatternFile != "" && !filepath.IsAbs(s.PatternFile) {
		s.PatternFile = filepath.Join(filepath.Dir(path), s.PatternFile)
	}

	if err := validateScenario(s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

// ParseScenario decodes a scenario without resolving or validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &s, nil
}

// LoadScenarios loads every scenario file under dir whose base name
// matches filter (a filepath.Match glob; empty matches all).
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	files, err := FindScenarioFiles(dir, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*Scenario, 0, len(files))
	for _, f := range files {
		s, err := LoadScenario(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// FindScenarioFiles walks dir for .yaml and .yml files, in lexical order.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// LoadPattern returns the scenario's pattern.
func (s *Scenario) LoadPattern() (*pattern.Pattern, error) {
	if s.Pattern != nil {
		p, err := s.Pattern.Pattern()
		if err != nil {
			return nil, err
		}
		if p.Name == "" {
			p.Name = s.Name
		}
		return p, nil
	}

	ps, err := compiler.Load(s.PatternFile)
	if err != nil {
		return nil, err
	}
	if s.PatternName == "" {
		if len(ps) != 1 {
			return nil, fmt.Errorf("%s declares %d patterns; set pattern_name", s.PatternFile, len(ps))
		}
		return ps[0], nil
	}
	for _, p := range ps {
		if p.Name == s.PatternName {
			return p, nil
		}
	}
	return nil, fmt.Errorf("pattern %q not found in %s (have %v)", s.PatternName, s.PatternFile, compiler.Names(ps))
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if !target.Valid(s.Target) {
		return fmt.Errorf("target must be one of %v, got %q", target.Names, s.Target)
	}

	switch {
	case s.Pattern == nil && s.PatternFile == "":
		return fmt.Errorf("pattern or pattern_file is required")
	case s.Pattern != nil && s.PatternFile != "":
		return fmt.Errorf("pattern and pattern_file are mutually exclusive")
	case s.Pattern != nil && s.PatternName != "":
		return fmt.Errorf("pattern_name requires pattern_file")
	}

	if s.PatternFile != "" {
		if _, err := os.Stat(s.PatternFile); os.IsNotExist(err) {
			return fmt.Errorf("pattern file not found: %s", s.PatternFile)
		}
	}

	if s.Expect.Error != "" && (s.Expect.Golden || len(s.Expect.Contains) > 0 || len(s.Expect.Outputs) > 0) {
		return fmt.Errorf("expect.error cannot be combined with artifact expectations")
	}

	return nil
}
