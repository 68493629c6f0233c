package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the type of a wire.
type Type string

const (
	TypeQubit Type = "Qubit"
	TypeBool  Type = "Bool"
)

// OpKind identifies the structural role of a node.
type OpKind string

const (
	OpInput     OpKind = "Input"
	OpOutput    OpKind = "Output"
	OpCustom    OpKind = "Custom"
	OpConst     OpKind = "Const"
	OpLoadConst OpKind = "LoadConst"
)

// Extension names for custom ops.
const (
	ExtensionQuantum = "quantum.mbqc"
	ExtensionLogic   = "logic"
)

// Op describes what a node computes and its port signature.
type Op struct {
	Kind      OpKind    `json:"kind"`
	Name      string    `json:"name,omitempty"`
	Extension string    `json:"extension,omitempty"`
	In        []Type    `json:"in,omitempty"`
	Out       []Type    `json:"out,omitempty"`
	Args      []float64 `json:"args,omitempty"`
	Value     *bool     `json:"value,omitempty"`
}

// Wire addresses an output port of a node.
type Wire struct {
	Node int `json:"node"`
	Port int `json:"port"`
}

// String renders the wire as "nN:P".
func (w Wire) String() string {
	return fmt.Sprintf("n%d:%d", w.Node, w.Port)
}

// Node is one operation in the graph. Inputs lists the wire feeding each
// input port in order.
type Node struct {
	ID     int    `json:"id"`
	Op     Op     `json:"op"`
	Inputs []Wire `json:"inputs,omitempty"`
}

// Graph is a dataflow region with a single Input and a single Output node.
type Graph struct {
	Name   string `json:"name"`
	Nodes  []Node `json:"nodes"`
	Input  int    `json:"input"`
	Output int    `json:"output"`
}

// New creates an empty graph. Input and Output are -1 until set.
func New(name string) *Graph {
	return &Graph{Name: name, Input: -1, Output: -1}
}

// AddNode appends a node and returns its id.
func (g *Graph) AddNode(op Op, inputs ...Wire) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{ID: id, Op: op, Inputs: inputs})
	return id
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (Node, bool) {
	if id < 0 || id >= len(g.Nodes) {
		return Node{}, false
	}
	return g.Nodes[id], true
}

// Count returns the number of custom ops with the given name.
func (g *Graph) Count(name string) int {
	n := 0
	for _, node := range g.Nodes {
		if node.Op.Kind == OpCustom && node.Op.Name == name {
			n++
		}
	}
	return n
}

// Validate checks that the graph is well formed:
//   - every wire refers to an existing earlier node and port
//   - wire types match the consuming port
//   - no Qubit port is consumed more than once
func (g *Graph) Validate() error {
	consumed := make(map[Wire]int)
	for _, node := range g.Nodes {
		if len(node.Inputs) != len(node.Op.In) {
			return fmt.Errorf("node %d: %d inputs for %d ports", node.ID, len(node.Inputs), len(node.Op.In))
		}
		for port, w := range node.Inputs {
			if w.Node < 0 || w.Node >= node.ID {
				return fmt.Errorf("node %d port %d: source node %d does not precede it", node.ID, port, w.Node)
			}
			src := g.Nodes[w.Node]
			if w.Port < 0 || w.Port >= len(src.Op.Out) {
				return fmt.Errorf("node %d port %d: source %s has no such port", node.ID, port, w)
			}
			if got, want := src.Op.Out[w.Port], node.Op.In[port]; got != want {
				return fmt.Errorf("node %d port %d: type %s, want %s", node.ID, port, got, want)
			}
			if src.Op.Out[w.Port] == TypeQubit {
				if prev, ok := consumed[w]; ok {
					return fmt.Errorf("qubit wire %s consumed by nodes %d and %d", w, prev, node.ID)
				}
				consumed[w] = node.ID
			}
		}
	}
	return nil
}

// Render writes the graph as one line per node, e.g.
//
//	n3 = quantum.mbqc.Rz[0.5](n2:0) -> Qubit
func (g *Graph) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", g.Name)
	for _, node := range g.Nodes {
		fmt.Fprintf(&b, "  n%d = %s(", node.ID, opLabel(node.Op))
		for i, w := range node.Inputs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(w.String())
		}
		b.WriteString(")")
		if len(node.Op.Out) > 0 {
			types := make([]string, len(node.Op.Out))
			for i, t := range node.Op.Out {
				types[i] = string(t)
			}
			fmt.Fprintf(&b, " -> %s", strings.Join(types, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func opLabel(op Op) string {
	switch op.Kind {
	case OpCustom:
		label := op.Extension + "." + op.Name
		if len(op.Args) > 0 {
			args := make([]string, len(op.Args))
			for i, a := range op.Args {
				args[i] = strconv.FormatFloat(a, 'g', -1, 64)
			}
			label += "[" + strings.Join(args, ", ") + "]"
		}
		return label
	case OpConst:
		if op.Value != nil {
			return fmt.Sprintf("Const[%t]", *op.Value)
		}
		return "Const"
	default:
		return string(op.Kind)
	}
}
