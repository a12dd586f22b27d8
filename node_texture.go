package compositor

// TextureNode evaluates a procedural texture.
//
// Properties: pattern (checker, blend, ring), color1, color2, scale and
// offset ([u, v]), size (checker square size) and rings (ring frequency).
type TextureNode struct{ NodeBase }

// ConvertToOperations registers an operation per connected output.
func (n *TextureNode) ConvertToOperations(sys *ExecutionSystem, _ *Context) error {
	value, col := n.Output(0), n.Output(1)
	if !value.IsConnected() && !col.IsConnected() {
		return nil
	}
	tex, err := textureProperties(n.Properties())
	if err != nil {
		return n.propError(err)
	}

	if value.IsConnected() {
		op := NewTextureAlphaOperation(tex)
		sys.AddOperation(op)
		value.RelinkConnections(op.Output())
	}
	if col.IsConnected() {
		op := NewTextureOperation(tex)
		sys.AddOperation(op)
		col.RelinkConnections(op.Output())
	}
	return nil
}

func textureProperties(props Properties) (Texture, error) {
	tex := Texture{Scale: [2]float32{1, 1}}
	name, err := props.String("pattern", "checker")
	if err != nil {
		return tex, err
	}
	if tex.Pattern, err = ParseTexturePattern(name); err != nil {
		return tex, err
	}
	if tex.Color1, err = props.Pixel("color1", black); err != nil {
		return tex, err
	}
	if tex.Color2, err = props.Pixel("color2", white); err != nil {
		return tex, err
	}
	scale, err := props.Pixel("scale", Pixel{1, 1})
	if err != nil {
		return tex, err
	}
	offset, err := props.Pixel("offset", Pixel{})
	if err != nil {
		return tex, err
	}
	tex.Scale = [2]float32{scale[0], scale[1]}
	tex.Offset = [2]float32{offset[0], offset[1]}
	if tex.Size, err = props.Float("size", 0.25); err != nil {
		return tex, err
	}
	if tex.Rings, err = props.Float("rings", 4); err != nil {
		return tex, err
	}
	return tex, nil
}
