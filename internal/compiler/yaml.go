package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mbqc/internal/pattern"
)

// ParseYAML decodes one pattern document. JSON input is accepted since
// it is valid YAML. Unknown fields are rejected.
func ParseYAML(data []byte) (*pattern.Pattern, error) {
	var doc pattern.Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{Field: "document", Message: "empty pattern document"}
		}
		return nil, &CompileError{Field: "yaml", Message: err.Error()}
	}

	if err := CheckFormat(doc.Format); err != nil {
		return nil, &CompileError{Field: "format", Message: err.Error()}
	}

	p, err := doc.Pattern()
	if err != nil {
		return nil, &CompileError{Field: "commands", Message: err.Error()}
	}
	return p, nil
}

// LoadYAMLFile reads a YAML or JSON pattern file. A document without a
// name takes the file's base name.
func LoadYAMLFile(path string) (*pattern.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}
