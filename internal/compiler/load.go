package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/mbqc/internal/pattern"
)

// LoadCUEFile compiles every pattern declared under `pattern:` in a
// single CUE file, in declaration order.
func LoadCUEFile(path string) ([]*pattern.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return patternsOf(v)
}

// LoadCUEDir loads the CUE package in dir and compiles its patterns.
func LoadCUEDir(dir string) ([]*pattern.Pattern, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return patternsOf(v)
}

func patternsOf(v cue.Value) ([]*pattern.Pattern, error) {
	pv := v.LookupPath(cue.ParsePath("pattern"))
	if !pv.Exists() {
		return nil, &CompileError{Field: "pattern", Message: "no patterns declared", Pos: v.Pos()}
	}
	iter, err := pv.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []*pattern.Pattern
	for iter.Next() {
		p, err := CompilePattern(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", iter.Selector(), err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Load reads patterns from path by extension: .cue files and directories
// go through CUE; .yaml, .yml and .json through the YAML frontend.
func Load(path string) ([]*pattern.Pattern, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadCUEDir(path)
	}

	switch filepath.Ext(path) {
	case ".cue":
		return LoadCUEFile(path)
	case ".yaml", ".yml", ".json":
		p, err := LoadYAMLFile(path)
		if err != nil {
			return nil, err
		}
		return []*pattern.Pattern{p}, nil
	default:
		return nil, fmt.Errorf("%s: unsupported pattern file extension %q", path, filepath.Ext(path))
	}
}

// Names returns the names of ps, sorted.
func Names(ps []*pattern.Pattern) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names
}
