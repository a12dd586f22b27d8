package compositor

import "github.com/chewxy/math32"

// TransformNode scales and rotates Image about the canvas centre, then
// offsets it. Properties: x, y (pixels), angle (degrees), scale.
type TransformNode struct{ NodeBase }

// ConvertToOperations registers a transform.
func (n *TransformNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	props := n.Properties()
	var xf Transform
	var err error
	if xf.X, err = props.Float("x", 0); err != nil {
		return n.propError(err)
	}
	if xf.Y, err = props.Float("y", 0); err != nil {
		return n.propError(err)
	}
	deg, err := props.Float("angle", 0)
	if err != nil {
		return n.propError(err)
	}
	xf.Angle = deg * math32.Pi / 180
	if xf.Scale, err = props.Float("scale", 1); err != nil {
		return n.propError(err)
	}

	op, err := NewTransformOperation(xf)
	if err != nil {
		return n.propError(err)
	}
	sys.AddOperation(op)
	n.Input(0).RelinkConnections(op.Input(0), true, sys)
	n.Output(0).RelinkConnections(op.Output())
	return nil
}
