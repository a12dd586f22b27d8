package compositor

// CurveRGBNode applies tone curves. Properties combined, red, green and
// blue are lists of [x, y] points; a missing curve is the identity.
type CurveRGBNode struct{ NodeBase }

// ConvertToOperations registers a colour curve.
func (n *CurveRGBNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	var m CurveMapping
	props := n.Properties()
	for _, c := range []struct {
		key string
		dst *Curve
	}{
		{"combined", &m.Combined},
		{"red", &m.R},
		{"green", &m.G},
		{"blue", &m.B},
	} {
		curve, err := curveProperty(props, c.key, Curve{})
		if err != nil {
			return n.propError(err)
		}
		*c.dst = curve
	}

	op := NewColorCurveOperation(m)
	sys.AddOperation(op)
	for i := range 4 {
		n.Input(i).RelinkConnections(op.Input(i), true, sys)
	}
	n.Output(0).RelinkConnections(op.Output())
	return nil
}

// HueCorrectNode adjusts hue, saturation and value with curves indexed by
// hue (properties hue, saturation, value; flat at 0.5 by default) and mixes
// the result over the input by Fac.
type HueCorrectNode struct{ NodeBase }

// ConvertToOperations registers RGBToHSV, HSVCorrect, HSVToRGB and a mix
// when both Image and the output are connected.
func (n *HueCorrectNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	if !n.Input(1).IsConnected() || !n.Output(0).IsConnected() {
		return nil
	}
	props := n.Properties()
	flat := FlatCurve(0.5)
	hue, err := curveProperty(props, "hue", flat)
	if err != nil {
		return n.propError(err)
	}
	sat, err := curveProperty(props, "saturation", flat)
	if err != nil {
		return n.propError(err)
	}
	val, err := curveProperty(props, "value", flat)
	if err != nil {
		return n.propError(err)
	}

	toHSV := NewRGBToHSVOperation()
	correct := NewHSVCorrectOperation(hue, sat, val)
	toRGB := NewHSVToRGBOperation()
	mix := NewMixOperation(MixParams{Mode: BlendMix})
	for _, op := range []Operation{toHSV, correct, toRGB, mix} {
		sys.AddOperation(op)
	}
	sys.AddLink(toHSV.Output(), correct.Input(0))
	sys.AddLink(correct.Output(), toRGB.Input(0))
	sys.AddLink(toRGB.Output(), mix.Input(2))

	n.Input(0).RelinkConnections(mix.Input(0), true, sys)
	n.shareInput(sys, 1, toHSV.Input(0), mix.Input(1))
	n.Output(0).RelinkConnections(mix.Output())
	return nil
}
