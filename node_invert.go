package compositor

// InvertNode inverts colour (property rgb, default true) and alpha
// (property alpha, default false).
type InvertNode struct{ NodeBase }

// ConvertToOperations registers an inversion.
func (n *InvertNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	props := n.Properties()
	rgb, err := props.Bool("rgb", true)
	if err != nil {
		return n.propError(err)
	}
	alpha, err := props.Bool("alpha", false)
	if err != nil {
		return n.propError(err)
	}

	op := NewInvertOperation(rgb, alpha)
	sys.AddOperation(op)
	n.Input(0).RelinkConnections(op.Input(0), true, sys)
	n.Input(1).RelinkConnections(op.Input(1), true, sys)
	n.Output(0).RelinkConnections(op.Output())
	return nil
}
