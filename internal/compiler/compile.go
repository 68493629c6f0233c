package compiler

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/mbqc/internal/pattern"
)

//go:embed schema.cue
var schemaSource string

// schemaFor compiles the #Pattern definition in the context of v.
// Values from different contexts cannot be unified.
func schemaFor(v cue.Value) (cue.Value, error) {
	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return schema.LookupPath(cue.ParsePath("#Pattern")), nil
}

// CompilePattern parses a CUE value into a Pattern.
//
// The value should be the pattern struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`pattern: hadamard: { ... }`)
//	p, err := CompilePattern(v.LookupPath(cue.ParsePath("pattern.hadamard")))
func CompilePattern(v cue.Value) (*pattern.Pattern, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	doc := pattern.Document{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		doc.Name = labelName(labels[len(labels)-1])
	}

	def, err := schemaFor(v)
	if err != nil {
		return nil, err
	}
	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	if fv := v.LookupPath(cue.ParsePath("format")); fv.Exists() {
		if doc.Format, err = fv.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	if err := CheckFormat(doc.Format); err != nil {
		return nil, &CompileError{Field: "format", Message: err.Error(), Pos: v.Pos()}
	}

	if doc.Inputs, err = intList(v.LookupPath(cue.ParsePath("inputs"))); err != nil {
		return nil, err
	}
	if doc.Outputs, err = intList(v.LookupPath(cue.ParsePath("outputs"))); err != nil {
		return nil, err
	}

	iter, err := v.LookupPath(cue.ParsePath("commands")).List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		rec, err := parseRecord(iter.Value())
		if err != nil {
			return nil, err
		}
		if _, err := rec.Command(); err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("commands[%d]", i),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		doc.Commands = append(doc.Commands, rec)
	}

	return doc.Pattern()
}

// labelName returns the field name without quotes.
func labelName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

// parseRecord extracts one command struct.
func parseRecord(v cue.Value) (pattern.Record, error) {
	var rec pattern.Record
	var err error

	if rec.Kind, err = v.LookupPath(cue.ParsePath("kind")).String(); err != nil {
		return rec, formatCUEError(err)
	}
	if nv := v.LookupPath(cue.ParsePath("node")); nv.Exists() {
		if rec.Node, err = intValue(nv); err != nil {
			return rec, err
		}
	}
	if nv := v.LookupPath(cue.ParsePath("nodes")); nv.Exists() {
		if rec.Nodes, err = intList(nv); err != nil {
			return rec, err
		}
	}
	if pv := v.LookupPath(cue.ParsePath("plane")); pv.Exists() {
		if rec.Plane, err = pv.String(); err != nil {
			return rec, formatCUEError(err)
		}
	}
	if av := v.LookupPath(cue.ParsePath("angle")); av.Exists() {
		if rec.Angle, err = av.Float64(); err != nil {
			return rec, formatCUEError(err)
		}
	}
	if dv := v.LookupPath(cue.ParsePath("domain")); dv.Exists() {
		if rec.Domain, err = intList(dv); err != nil {
			return rec, err
		}
	}
	if cv := v.LookupPath(cue.ParsePath("clifford")); cv.Exists() {
		if rec.Clifford, err = intValue(cv); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func intValue(v cue.Value) (int, error) {
	n, err := v.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func intList(v cue.Value) ([]int, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := []int{}
	for iter.Next() {
		n, err := intValue(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
