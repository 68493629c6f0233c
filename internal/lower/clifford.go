package lower

// CliffordCount is the number of single-qubit Clifford operations.
const CliffordCount = 24

var cliffordTable = [CliffordCount][]Gate{
	{},
	{GateS},
	{GateS, GateS},
	{GateSDG},
	{GateH},
	{GateH, GateS},
	{GateH, GateS, GateS},
	{GateH, GateSDG},
	{GateS, GateH},
	{GateS, GateH, GateS},
	{GateS, GateH, GateS, GateS},
	{GateS, GateH, GateSDG},
	{GateH, GateS, GateH},
	{GateH, GateS, GateH, GateS},
	{GateH, GateS, GateH, GateS, GateS},
	{GateH, GateS, GateH, GateSDG},
	{GateS, GateH, GateS, GateH},
	{GateS, GateH, GateS, GateH, GateS},
	{GateS, GateH, GateS, GateH, GateS, GateS},
	{GateS, GateH, GateS, GateH, GateSDG},
	{GateH, GateS, GateH, GateS, GateH},
	{GateH, GateS, GateH, GateS, GateH, GateS},
	{GateH, GateS, GateH, GateS, GateH, GateS, GateS},
	{GateH, GateS, GateH, GateS, GateH, GateSDG},
}

// Decompose returns the gate sequence for a Clifford table index, applied
// first to last. The index is reduced modulo 24; negative indices wrap.
// Index 0 is the identity and yields no gates.
func Decompose(index int) []Gate {
	i := ((index % CliffordCount) + CliffordCount) % CliffordCount
	gates := make([]Gate, len(cliffordTable[i]))
	copy(gates, cliffordTable[i])
	return gates
}
