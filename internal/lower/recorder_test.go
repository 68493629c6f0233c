package lower

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
)

// discardLogger returns a logger that drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorded is the representation built by recorder.
type recorded struct {
	Ops    []string
	Qubits []int    // wire of each output qubit
	Bits   []string // classical expression of each measured node
}

// recorder is an Emitter that logs every call against stable wire numbers
// and fails the test if a consumed qubit handle is used again.
//
// Qubit handles are fresh ints per operation; each handle maps to the wire
// (allocation slot) it descends from. Classical handles are expressions:
// "mK" for the K-th measurement, "a^b" for Xor and "false".
type recorder struct {
	t         *testing.T
	next      int
	wire      map[int]int
	wires     int
	measures  int
	ops       []string
	finalized bool
}

func newRecorder(t *testing.T) *recorder {
	return &recorder{t: t, wire: make(map[int]int)}
}

func (r *recorder) fresh(w int) int {
	h := r.next
	r.next++
	r.wire[h] = w
	return h
}

func (r *recorder) consume(q int) int {
	r.t.Helper()
	w, ok := r.wire[q]
	if !ok {
		r.t.Fatalf("qubit handle %d used after consumption", q)
	}
	delete(r.wire, q)
	return w
}

func (r *recorder) Allocate(n int) []int {
	r.ops = append(r.ops, fmt.Sprintf("alloc %d", n))
	hs := make([]int, n)
	for i := range hs {
		hs[i] = r.fresh(r.wires)
		r.wires++
	}
	return hs
}

func (r *recorder) PrepareAncilla() int {
	w := r.wires
	r.wires++
	r.ops = append(r.ops, fmt.Sprintf("prep w%d", w))
	return r.fresh(w)
}

func (r *recorder) ApplyUnary(g Gate, q int) int {
	w := r.consume(q)
	r.ops = append(r.ops, fmt.Sprintf("%s w%d", strings.ToLower(string(g)), w))
	return r.fresh(w)
}

func (r *recorder) ApplyUnaryParam(g Gate, angle float64, q int) int {
	w := r.consume(q)
	r.ops = append(r.ops, fmt.Sprintf("%s(%g) w%d", strings.ToLower(string(g)), angle, w))
	return r.fresh(w)
}

func (r *recorder) ApplyBinarySymmetric(g Gate, a, b int) (int, int) {
	wa := r.consume(a)
	wb := r.consume(b)
	r.ops = append(r.ops, fmt.Sprintf("%s w%d w%d", strings.ToLower(string(g)), wa, wb))
	return r.fresh(wa), r.fresh(wb)
}

func (r *recorder) Measure(q int) string {
	w := r.consume(q)
	m := fmt.Sprintf("m%d", r.measures)
	r.measures++
	r.ops = append(r.ops, fmt.Sprintf("measure w%d -> %s", w, m))
	return m
}

func (r *recorder) Xor(a, b string) string {
	return a + "^" + b
}

func (r *recorder) ApplyConditionalUnary(g Gate, cond string, q int) int {
	w := r.consume(q)
	r.ops = append(r.ops, fmt.Sprintf("if %s: %s w%d", cond, strings.ToLower(string(g)), w))
	return r.fresh(w)
}

func (r *recorder) ConstantFalse() string {
	return "false"
}

func (r *recorder) Finalize(out Outputs[int, string]) (recorded, error) {
	r.finalized = true
	res := recorded{Ops: r.ops}
	for _, q := range out.Qubits {
		res.Qubits = append(res.Qubits, r.consume(q))
	}
	res.Bits = out.Bits
	return res, nil
}

// evalBits evaluates a recorder expression given the outcome of each
// measurement in call order.
func evalBits(t *testing.T, expr string, outcomes []bool) bool {
	t.Helper()
	if expr == "false" {
		return false
	}
	v := false
	for _, term := range strings.Split(expr, "^") {
		k, err := strconv.Atoi(strings.TrimPrefix(term, "m"))
		if err != nil {
			t.Fatalf("bad term %q in %q", term, expr)
		}
		v = v != outcomes[k]
	}
	return v
}
