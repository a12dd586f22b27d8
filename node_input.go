package compositor

// ValueNode outputs the constant in its "value" property.
type ValueNode struct{ NodeBase }

// ConvertToOperations registers a constant value.
func (n *ValueNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	v, err := n.Properties().Float("value", 0)
	if err != nil {
		return n.propError(err)
	}
	n.setConstant(sys, DataTypeValue, ValuePixel(v))
	return nil
}

// RGBNode outputs the colour in its "color" property.
type RGBNode struct{ NodeBase }

// ConvertToOperations registers a constant colour.
func (n *RGBNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	c, err := n.Properties().Pixel("color", Pixel{0.5, 0.5, 0.5, 1})
	if err != nil {
		return n.propError(err)
	}
	n.setConstant(sys, DataTypeColor, c)
	return nil
}

// VectorNode outputs the vector in its "vector" property.
type VectorNode struct{ NodeBase }

// ConvertToOperations registers a constant vector.
func (n *VectorNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	v, err := n.Properties().Pixel("vector", Pixel{})
	if err != nil {
		return n.propError(err)
	}
	n.setConstant(sys, DataTypeVector, v)
	return nil
}

func (b *NodeBase) setConstant(sys *ExecutionSystem, t DataType, v Pixel) {
	op := NewSetOperation(t, v)
	sys.AddOperation(op)
	b.Output(0).RelinkConnections(op.Output())
}
