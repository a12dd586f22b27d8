package compositor

// SeparateRGBANode splits a colour into R, G, B and A values.
type SeparateRGBANode struct{ NodeBase }

// ConvertToOperations registers one extraction per connected output, all
// fed by the Image input.
func (n *SeparateRGBANode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	var targets []*InputSocket
	for ch, out := range n.Outputs() {
		if !out.IsConnected() {
			continue
		}
		op := NewSeparateChannelOperation(ch)
		sys.AddOperation(op)
		out.RelinkConnections(op.Output())
		targets = append(targets, op.Input(0))
	}
	n.shareInput(sys, 0, targets...)
	return nil
}

// CombineRGBANode builds a colour from R, G, B and A values.
type CombineRGBANode struct{ NodeBase }

// ConvertToOperations registers a channel combiner.
func (n *CombineRGBANode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	op := NewCombineChannelsOperation()
	sys.AddOperation(op)
	for i := range 4 {
		n.Input(i).RelinkConnections(op.Input(i), true, sys)
	}
	n.Output(0).RelinkConnections(op.Output())
	return nil
}

// SetAlphaNode replaces the alpha of Image with Alpha.
type SetAlphaNode struct{ NodeBase }

// ConvertToOperations registers an alpha replacement.
func (n *SetAlphaNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	op := NewSetAlphaOperation()
	sys.AddOperation(op)
	n.Input(0).RelinkConnections(op.Input(0), true, sys)
	n.Input(1).RelinkConnections(op.Input(1), true, sys)
	n.Output(0).RelinkConnections(op.Output())
	return nil
}
