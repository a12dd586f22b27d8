package compositor

// ImageNode places an image file at the canvas origin.
//
// Properties: path (required), colorspace ("srgb" or "linear") and fit
// (rescale to the canvas size).
type ImageNode struct{ NodeBase }

// ConvertToOperations registers an operation per connected output.
func (n *ImageNode) ConvertToOperations(sys *ExecutionSystem, ctx *Context) error {
	img, alpha := n.Output(0), n.Output(1)
	if !img.IsConnected() && !alpha.IsConnected() {
		return nil
	}
	ref, err := imageRef(n.Properties(), ctx)
	if err != nil {
		return n.propError(err)
	}

	if img.IsConnected() {
		op := NewImageOperation(ref, ctx.Images())
		sys.AddOperation(op)
		img.RelinkConnections(op.Output())
	}
	if alpha.IsConnected() {
		op := NewImageAlphaOperation(ref, ctx.Images())
		sys.AddOperation(op)
		alpha.RelinkConnections(op.Output())
	}
	return nil
}

func imageRef(props Properties, ctx *Context) (ImageRef, error) {
	path, err := props.String("path", "")
	if err != nil {
		return ImageRef{}, err
	}
	if path == "" {
		return ImageRef{}, invalidProperty(errMissing("path"))
	}
	space, err := props.String("colorspace", "srgb")
	if err != nil {
		return ImageRef{}, err
	}
	fit, err := props.Bool("fit", false)
	if err != nil {
		return ImageRef{}, err
	}
	ref := ImageRef{Path: path, ColorSpace: space}
	if fit {
		ref.FitWidth, ref.FitHeight = ctx.Width(), ctx.Height()
	}
	return ref, nil
}
