package lower

import (
	"fmt"

	"github.com/roach88/mbqc/internal/pattern"
)

// Warning codes reported by Audit.
const (
	// WarnNeverPrepared marks an id that is referenced but is neither an
	// input nor prepared anywhere in the stream.
	WarnNeverPrepared = "NEVER_PREPARED"

	// WarnPreparedLate marks an id referenced before its Prepare command.
	WarnPreparedLate = "PREPARED_LATE"

	// WarnReprepared marks a Prepare on an input or an already prepared id.
	WarnReprepared = "REPREPARED"
)

// Warning is a non-fatal finding about a pattern. The lowering result is
// still valid: commands on ids that are not live are skipped.
type Warning struct {
	Code    string `json:"code"`
	Node    int    `json:"node"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// String renders the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (command=%d, node=%d)", w.Code, w.Message, w.Index, w.Node)
}

// Audit scans a pattern for references the driver will silently skip.
// Each id is reported at most once per code, at its first occurrence.
func Audit(p *pattern.Pattern) []Warning {
	firstPrepare := make(map[int]int)
	for i, cmd := range p.Commands {
		if prep, ok := cmd.(pattern.Prepare); ok {
			if _, seen := firstPrepare[prep.Node]; !seen {
				firstPrepare[prep.Node] = i
			}
		}
	}

	inputs := make(map[int]bool, len(p.Inputs))
	for _, id := range p.Inputs {
		inputs[id] = true
	}

	var warnings []Warning
	reported := make(map[string]map[int]bool)
	report := func(code string, node, index int, msg string) {
		if reported[code] == nil {
			reported[code] = make(map[int]bool)
		}
		if reported[code][node] {
			return
		}
		reported[code][node] = true
		warnings = append(warnings, Warning{Code: code, Node: node, Index: index, Message: msg})
	}

	for i, cmd := range p.Commands {
		if prep, ok := cmd.(pattern.Prepare); ok {
			if inputs[prep.Node] || firstPrepare[prep.Node] != i {
				report(WarnReprepared, prep.Node, i, "node is an input or prepared more than once")
			}
			continue
		}
		for _, id := range pattern.Referenced(cmd) {
			if inputs[id] {
				continue
			}
			at, prepared := firstPrepare[id]
			switch {
			case !prepared:
				report(WarnNeverPrepared, id, i, "node is neither an input nor prepared")
			case at > i:
				report(WarnPreparedLate, id, i, fmt.Sprintf("node referenced before its preparation at command %d", at))
			}
		}
	}
	return warnings
}
