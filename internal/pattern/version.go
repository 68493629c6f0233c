package pattern

// Version constants for the pattern document format and the lowering engine.
const (
	// FormatVersion is the pattern document format written by this module.
	FormatVersion = "1.0.0"

	// EngineVersion is the lowering engine version recorded with conversions.
	EngineVersion = "0.1.0"
)
