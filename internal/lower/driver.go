package lower

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/mbqc/internal/pattern"
)

// Option configures a lowering pass.
type Option func(*config)

type config struct {
	maxCommands int
	logger      *slog.Logger
	onWarning   func(Warning)
}

// WithMaxCommands sets the command budget for the pass.
// A value <= 0 disables the budget.
func WithMaxCommands(n int) Option {
	return func(c *config) {
		c.maxCommands = n
	}
}

// WithLogger sets the logger for the pass. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithWarningHandler registers a callback for audit warnings.
func WithWarningHandler(fn func(Warning)) Option {
	return func(c *config) {
		c.onWarning = fn
	}
}

// MeasuredNodes returns the ids targeted by Measure commands that are not
// outputs, deduplicated and in ascending order.
func MeasuredNodes(p *pattern.Pattern) []int {
	outputs := make(map[int]bool, len(p.Outputs))
	for _, id := range p.Outputs {
		outputs[id] = true
	}

	seen := make(map[int]bool)
	var ids []int
	for _, cmd := range p.Commands {
		m, ok := cmd.(pattern.Measure)
		if !ok || outputs[m.Node] || seen[m.Node] {
			continue
		}
		seen[m.Node] = true
		ids = append(ids, m.Node)
	}
	slices.Sort(ids)
	return ids
}

// Convert lowers p through em in a single left-to-right pass and returns
// the representation produced by em.Finalize.
//
// On a structural error the zero R and an *Error are returned. Audit
// warnings never fail the pass; they are logged and passed to the
// handler registered with WithWarningHandler.
func Convert[Q, C, R any](p *pattern.Pattern, em Emitter[Q, C, R], opts ...Option) (R, error) {
	cfg := config{maxCommands: DefaultMaxCommands}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	var zero R
	if err := checkDistinct("inputs", p.Inputs); err != nil {
		return zero, err
	}
	if err := checkDistinct("outputs", p.Outputs); err != nil {
		return zero, err
	}

	l := &lowering[Q, C, R]{
		em:     em,
		env:    NewEnv[Q, C](),
		budget: NewBudget(cfg.maxCommands),
		logger: cfg.logger,
	}

	measured := MeasuredNodes(p)
	l.logger.Debug("lowering pattern",
		"pattern", p.Name,
		"commands", len(p.Commands),
		"inputs", len(p.Inputs),
		"outputs", len(p.Outputs),
		"measured", len(measured))

	l.bindInputs(p.Inputs)

	for i, cmd := range p.Commands {
		if err := l.budget.Check(); err != nil {
			var be *BudgetExceededError
			if !errors.As(err, &be) {
				return zero, err
			}
			return zero, NewResourceError(i, be)
		}
		if err := l.step(i, cmd); err != nil {
			return zero, err
		}
	}

	out, err := l.collect(p.Outputs, measured)
	if err != nil {
		return zero, err
	}

	result, err := em.Finalize(out)
	if err != nil {
		return zero, fmt.Errorf("finalize: %w", err)
	}

	for _, w := range Audit(p) {
		l.logger.Warn("pattern audit", "pattern", p.Name, "code", w.Code, "node", w.Node, "command", w.Index, "message", w.Message)
		if cfg.onWarning != nil {
			cfg.onWarning(w)
		}
	}

	l.logger.Debug("pattern lowered",
		"pattern", p.Name,
		"qubits", len(out.Qubits),
		"bits", len(out.Bits))

	return result, nil
}

func checkDistinct(list string, ids []int) error {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return NewDuplicateNodeError(list, id)
		}
		seen[id] = true
	}
	return nil
}

// lowering holds the state of one pass.
type lowering[Q, C, R any] struct {
	em     Emitter[Q, C, R]
	env    *Env[Q, C]
	budget *Budget
	logger *slog.Logger
}

// bindInputs allocates one slot per input and binds ids in ascending order.
func (l *lowering[Q, C, R]) bindInputs(inputs []int) {
	sorted := slices.Clone(inputs)
	slices.Sort(sorted)

	slots := l.em.Allocate(len(sorted))
	for i, id := range sorted {
		l.env.Bind(id, slots[i])
	}
}

func (l *lowering[Q, C, R]) step(index int, cmd pattern.Command) error {
	switch c := cmd.(type) {
	case pattern.Prepare:
		l.env.Prepare(c.Node, l.em.PrepareAncilla())
	case pattern.Entangle:
		l.entangle(c)
	case pattern.Measure:
		l.measure(c)
	case pattern.Correction:
		gate, ok := correctionGate(c.Pauli)
		if !ok {
			return NewUnknownCommandError(index, string(c.Pauli))
		}
		l.correct(c, gate)
	case pattern.Clifford:
		l.clifford(c)
	default:
		kind := fmt.Sprintf("%T", cmd)
		if cmd != nil {
			kind = string(cmd.Kind())
		}
		return NewUnknownCommandError(index, kind)
	}
	return nil
}

func correctionGate(k pattern.Kind) (Gate, bool) {
	switch k {
	case pattern.KindCorrectX:
		return GateX, true
	case pattern.KindCorrectZ:
		return GateZ, true
	default:
		return "", false
	}
}

// entangle applies CZ when both ids are live. Self-entanglement is skipped
// since it would consume the same handle twice.
func (l *lowering[Q, C, R]) entangle(c pattern.Entangle) {
	qa, okA := l.env.Qubit(c.A)
	qb, okB := l.env.Qubit(c.B)
	if !okA || !okB || c.A == c.B {
		l.logger.Debug("skipping entangle", "a", c.A, "b", c.B)
		return
	}
	na, nb := l.em.ApplyBinarySymmetric(GateCZ, qa, qb)
	l.env.Bind(c.A, na)
	l.env.Bind(c.B, nb)
}

func (l *lowering[Q, C, R]) measure(c pattern.Measure) {
	q, ok := l.env.Qubit(c.Node)
	if !ok {
		l.logger.Debug("skipping measure", "node", c.Node)
		return
	}
	for _, s := range BasisChange(c.Plane, c.Angle) {
		if s.Param() {
			q = l.em.ApplyUnaryParam(s.Gate, s.Angle, q)
		} else {
			q = l.em.ApplyUnary(s.Gate, q)
		}
	}
	l.env.Consume(c.Node, l.em.Measure(q))
}

func (l *lowering[Q, C, R]) correct(c pattern.Correction, gate Gate) {
	q, ok := l.env.Qubit(c.Node)
	if !ok {
		l.logger.Debug("skipping correction", "node", c.Node, "pauli", c.Pauli)
		return
	}
	if len(c.Domain) == 0 {
		l.env.Bind(c.Node, l.em.ApplyUnary(gate, q))
		return
	}
	cond := l.parity(c.Domain)
	l.env.Bind(c.Node, l.em.ApplyConditionalUnary(gate, cond, q))
}

// parity folds the outcomes of domain with Xor in ascending id order.
// Members without an outcome are dropped; if none resolve the condition
// is ConstantFalse.
func (l *lowering[Q, C, R]) parity(domain []int) C {
	ids := slices.Clone(domain)
	slices.Sort(ids)

	var acc C
	resolved := false
	for _, id := range ids {
		b, ok := l.env.Bit(id)
		if !ok {
			continue
		}
		if !resolved {
			acc, resolved = b, true
			continue
		}
		acc = l.em.Xor(acc, b)
	}
	if !resolved {
		return l.em.ConstantFalse()
	}
	return acc
}

func (l *lowering[Q, C, R]) clifford(c pattern.Clifford) {
	q, ok := l.env.Qubit(c.Node)
	if !ok {
		l.logger.Debug("skipping clifford", "node", c.Node, "index", c.Index)
		return
	}
	for _, g := range Decompose(c.Index) {
		q = l.em.ApplyUnary(g, q)
	}
	l.env.Bind(c.Node, q)
}

// collect assembles the ordered result handles.
func (l *lowering[Q, C, R]) collect(outputs, measured []int) (Outputs[Q, C], error) {
	ids := slices.Clone(outputs)
	slices.Sort(ids)

	out := Outputs[Q, C]{
		Qubits:     make([]Q, 0, len(ids)),
		Bits:       make([]C, 0, len(measured)),
		QubitNodes: ids,
		BitNodes:   slices.Clone(measured),
	}
	for _, id := range ids {
		q, ok := l.env.Qubit(id)
		if !ok {
			return Outputs[Q, C]{}, NewDanglingOutputError(id)
		}
		out.Qubits = append(out.Qubits, q)
	}
	for _, id := range measured {
		b, ok := l.env.Bit(id)
		if !ok {
			b = l.em.ConstantFalse()
		}
		out.Bits = append(out.Bits, b)
	}
	return out, nil
}
