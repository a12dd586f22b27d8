package compositor

// RerouteNode forwards its input. It registers no operation.
type RerouteNode struct{ NodeBase }

// ConvertToOperations relinks the output onto the input's source.
func (n *RerouteNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	convertPassThrough(&n.NodeBase, sys)
	return nil
}

// convertPassThrough lowers reroutes and muted nodes. Each output takes
// over the source of the first input with the same type, or of the first
// input. An unconnected input is replaced by a constant of its default;
// outputs of nodes without inputs get a constant of the output default.
func convertPassThrough(b *NodeBase, sys *ExecutionSystem) {
	for _, out := range b.outputs {
		if !out.IsConnected() {
			continue
		}
		in := passThroughInput(b, out.DataType())
		if in == nil {
			set := NewSetOperation(out.DataType(), out.tmpl.Default)
			sys.AddOperation(set)
			out.RelinkConnections(set.Output())
			continue
		}
		if src := in.Source(); src != nil {
			out.RelinkConnections(src)
			continue
		}
		set := NewSetOperation(in.DataType(), in.Default())
		sys.AddOperation(set)
		out.RelinkConnections(set.Output())
	}
}

func passThroughInput(b *NodeBase, t DataType) *InputSocket {
	for _, in := range b.inputs {
		if in.DataType() == t {
			return in
		}
	}
	if len(b.inputs) > 0 {
		return b.inputs[0]
	}
	return nil
}
