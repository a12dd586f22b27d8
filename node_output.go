package compositor

// OutputNode is a composite or viewer node. It produces the job result
// named after the node. Property use_alpha (default true) keeps the image
// alpha; when false the result is opaque.
type OutputNode struct{ NodeBase }

// ConvertToOperations registers the output sink.
func (n *OutputNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	useAlpha, err := n.Properties().Bool("use_alpha", true)
	if err != nil {
		return n.propError(err)
	}
	op := NewCompositeOperation(n.Name(), useAlpha)
	sys.AddOperation(op)
	n.Input(0).RelinkConnections(op.Input(0), true, sys)
	n.Input(1).RelinkConnections(op.Input(1), false, sys)
	return nil
}
