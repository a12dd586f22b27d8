package compositor

// MixNode blends Image2 into Image1.
//
// Properties: blend (mode name, default "mix"), use_alpha (multiply Fac by
// the alpha of Image2), use_clamp.
type MixNode struct{ NodeBase }

// ConvertToOperations registers a CPU or accelerated mix.
func (n *MixNode) ConvertToOperations(sys *ExecutionSystem, ctx *Context) error {
	p, err := mixProperties(n.Properties())
	if err != nil {
		return n.propError(err)
	}

	var op Operation
	if p.Mode.Separable() && ctx.canAccelerate(AccelMix) {
		op = NewAcceleratedMixOperation(p, ctx.Accelerator())
	} else {
		op = NewMixOperation(p)
	}
	sys.AddOperation(op)

	b := op.Base()
	for i := range 3 {
		n.Input(i).RelinkConnections(b.Input(i), true, sys)
	}
	n.Output(0).RelinkConnections(b.Output())
	return nil
}

func mixProperties(props Properties) (MixParams, error) {
	name, err := props.String("blend", "mix")
	if err != nil {
		return MixParams{}, err
	}
	mode, err := ParseBlendMode(name)
	if err != nil {
		return MixParams{}, invalidProperty(err)
	}
	useAlpha, err := props.Bool("use_alpha", false)
	if err != nil {
		return MixParams{}, err
	}
	clamp, err := props.Bool("use_clamp", false)
	if err != nil {
		return MixParams{}, err
	}
	return MixParams{Mode: mode, UseAlpha: useAlpha, Clamp: clamp}, nil
}
