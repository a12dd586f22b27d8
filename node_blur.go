package compositor

// BlurNode blurs Image. The "size" property is the radius in pixels; it is
// scaled by the Size input, per pixel when Size is connected.
type BlurNode struct{ NodeBase }

// ConvertToOperations registers a fixed or variable size blur.
func (n *BlurNode) ConvertToOperations(sys *ExecutionSystem, ctx *Context) error {
	size, err := n.Properties().Float("size", 0)
	if err != nil {
		return n.propError(err)
	}
	if size < 0 {
		return n.propError(invalidProperty(errMissing("non-negative size")))
	}

	sizeIn := n.Input(1)
	if sizeIn.IsConnected() {
		op := NewVariableSizeBlurOperation(size, ctx.Quality())
		sys.AddOperation(op)
		n.Input(0).RelinkConnections(op.Input(0), true, sys)
		sizeIn.RelinkConnections(op.Input(1), true, sys)
		n.Output(0).RelinkConnections(op.Output())
		return nil
	}

	op := NewBlurOperation(size*sizeIn.Default().Value(), ctx.Quality())
	sys.AddOperation(op)
	n.Input(0).RelinkConnections(op.Input(0), true, sys)
	n.Output(0).RelinkConnections(op.Output())
	return nil
}
