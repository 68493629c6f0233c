package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares the rendered artifact
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot be executed. Unmet expectations
// and golden mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, e)
	}
	if result.Artifact == nil {
		return nil
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares a result's artifact text against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	if result.Artifact == nil {
		return fmt.Errorf("scenario %s produced no artifact", name)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(result.Artifact.Text))

	return nil
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<base>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// UpdateGolden writes the result's artifact text as the golden file.
func UpdateGolden(path string, result *Result) error {
	if result.Artifact == nil {
		return fmt.Errorf("no artifact to write")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(result.Artifact.Text), 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the result's artifact text matches the
// golden file byte for byte.
func CompareGolden(path string, result *Result) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	if result.Artifact == nil {
		return false, nil
	}
	return string(data) == result.Artifact.Text, nil
}
