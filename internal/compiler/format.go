package compiler

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/roach88/mbqc/internal/pattern"
)

// SupportedFormats is the range of pattern document formats this build reads.
const SupportedFormats = "^1.0.0"

var supported = mustConstraint(SupportedFormats)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(fmt.Sprintf("compiler: bad format constraint %q: %v", s, err))
	}
	return c
}

// CheckFormat reports whether a document declaring format can be read.
// An empty format means pattern.FormatVersion.
func CheckFormat(format string) error {
	if format == "" {
		format = pattern.FormatVersion
	}
	v, err := semver.NewVersion(format)
	if err != nil {
		return fmt.Errorf("invalid format version %q: %w", format, err)
	}
	if !supported.Check(v) {
		return fmt.Errorf("format %s is not supported (want %s)", v, SupportedFormats)
	}
	return nil
}
