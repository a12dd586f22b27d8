package compositor

import (
	"fmt"
	"slices"
	"strings"
)

// Node is a vertex of the editor graph after instantiation. A node lowers
// itself into operations exactly once.
type Node interface {
	// Base returns the sockets shared by all nodes.
	Base() *NodeBase

	// ConvertToOperations registers the node's operations with sys and
	// moves the node's socket connections onto them.
	ConvertToOperations(sys *ExecutionSystem, ctx *Context) error
}

// NodeBase holds the sockets of a node and its editor vertex.
type NodeBase struct {
	editor  *TreeNode
	typ     *NodeType
	inputs  []*InputSocket
	outputs []*OutputSocket
}

func (b *NodeBase) setup(n Node, editor *TreeNode, typ *NodeType) {
	b.editor = editor
	b.typ = typ
	owner := socketOwner{node: n}
	b.inputs = make([]*InputSocket, len(typ.Inputs))
	for i, t := range typ.Inputs {
		if d, ok := editor.Defaults[t.Name]; ok {
			t.Default = d
		}
		b.inputs[i] = newInputSocket(owner, i, t)
	}
	b.outputs = make([]*OutputSocket, len(typ.Outputs))
	for i, t := range typ.Outputs {
		b.outputs[i] = newOutputSocket(owner, i, t)
	}
}

// Base returns b.
func (b *NodeBase) Base() *NodeBase { return b }

// EditorNode returns the editor vertex the node was built from.
func (b *NodeBase) EditorNode() *TreeNode { return b.editor }

// Name returns the editor node name.
func (b *NodeBase) Name() string { return b.editor.Name }

// Kind returns the node kind.
func (b *NodeBase) Kind() string { return b.typ.Kind }

// Properties returns the editor node properties.
func (b *NodeBase) Properties() Properties { return b.editor.Properties }

// Inputs returns the input sockets in order.
func (b *NodeBase) Inputs() []*InputSocket { return b.inputs }

// Outputs returns the output sockets in order.
func (b *NodeBase) Outputs() []*OutputSocket { return b.outputs }

// Input returns input socket i.
func (b *NodeBase) Input(i int) *InputSocket { return b.inputs[i] }

// Output returns output socket i.
func (b *NodeBase) Output(i int) *OutputSocket { return b.outputs[i] }

// InputByName returns the input socket with the given name, or nil.
func (b *NodeBase) InputByName(name string) *InputSocket {
	if i := b.typ.inputIndex(name); i >= 0 {
		return b.inputs[i]
	}
	return nil
}

// OutputByName returns the output socket with the given name, or nil.
func (b *NodeBase) OutputByName(name string) *OutputSocket {
	if i := b.typ.outputIndex(name); i >= 0 {
		return b.outputs[i]
	}
	return nil
}

// shareInput relinks input i onto every target. The first target takes over
// the node connection (or a constant with the input default); the others
// are linked to the same source.
func (b *NodeBase) shareInput(sys *ExecutionSystem, i int, targets ...*InputSocket) {
	if len(targets) == 0 {
		return
	}
	in := b.inputs[i]
	in.RelinkConnections(targets[0], true, sys)
	src := targets[0].Source()
	if src == nil {
		return
	}
	for _, t := range targets[1:] {
		sys.AddLink(src, t)
	}
}

// propError wraps a property decoding error with the node name.
func (b *NodeBase) propError(err error) error {
	return fmt.Errorf("node %q: %w", b.Name(), err)
}

// NodeType describes one node kind: its sockets and constructor.
type NodeType struct {
	Kind        string
	Description string
	Inputs      []SocketTemplate
	Outputs     []SocketTemplate

	new func() Node
}

func (t *NodeType) inputIndex(name string) int {
	return slices.IndexFunc(t.Inputs, func(s SocketTemplate) bool { return s.Name == name })
}

func (t *NodeType) outputIndex(name string) int {
	return slices.IndexFunc(t.Outputs, func(s SocketTemplate) bool { return s.Name == name })
}

var (
	white = Pixel{1, 1, 1, 1}
	black = Pixel{0, 0, 0, 1}
)

func colorSocket(name string, def Pixel) SocketTemplate {
	return SocketTemplate{Name: name, Type: DataTypeColor, Default: def}
}

func valueSocket(name string, def float32) SocketTemplate {
	return SocketTemplate{Name: name, Type: DataTypeValue, Default: ValuePixel(def)}
}

func vectorSocket(name string) SocketTemplate {
	return SocketTemplate{Name: name, Type: DataTypeVector}
}

// nodeTypes is the closed set of node kinds, sorted by kind.
var nodeTypes = []NodeType{
	{
		Kind:        "blur",
		Description: "disc blur with a fixed or per-pixel radius",
		Inputs:      []SocketTemplate{colorSocket("Image", white), valueSocket("Size", 1)},
		Outputs:     []SocketTemplate{colorSocket("Image", Pixel{})},
		new:         func() Node { return &BlurNode{} },
	},
	{
		Kind:        "combine_rgba",
		Description: "builds a colour from four values",
		Inputs: []SocketTemplate{
			valueSocket("R", 0), valueSocket("G", 0), valueSocket("B", 0), valueSocket("A", 1),
		},
		Outputs: []SocketTemplate{colorSocket("Image", Pixel{})},
		new:     func() Node { return &CombineRGBANode{} },
	},
	{
		Kind:        "composite",
		Description: "final job output",
		Inputs: []SocketTemplate{
			colorSocket("Image", Pixel{}),
			{Name: "Alpha", Type: DataTypeValue, Default: ValuePixel(1), Optional: true},
		},
		new: func() Node { return &OutputNode{} },
	},
	{
		Kind:        "curve_rgb",
		Description: "per-channel and combined tone curves with black and white levels",
		Inputs: []SocketTemplate{
			valueSocket("Fac", 1), colorSocket("Image", white),
			colorSocket("Black", black), colorSocket("White", white),
		},
		Outputs: []SocketTemplate{colorSocket("Image", Pixel{})},
		new:     func() Node { return &CurveRGBNode{} },
	},
	{
		Kind:        "hue_correct",
		Description: "hue, saturation and value curves indexed by hue",
		Inputs:      []SocketTemplate{valueSocket("Fac", 1), colorSocket("Image", white)},
		Outputs:     []SocketTemplate{colorSocket("Image", Pixel{})},
		new:         func() Node { return &HueCorrectNode{} },
	},
	{
		Kind:        "image",
		Description: "image file placed at the canvas origin",
		Outputs:     []SocketTemplate{colorSocket("Image", Pixel{}), valueSocket("Alpha", 0)},
		new:         func() Node { return &ImageNode{} },
	},
	{
		Kind:        "invert",
		Description: "inverts colour and optionally alpha",
		Inputs:      []SocketTemplate{valueSocket("Fac", 1), colorSocket("Color", white)},
		Outputs:     []SocketTemplate{colorSocket("Color", Pixel{})},
		new:         func() Node { return &InvertNode{} },
	},
	{
		Kind:        "mix",
		Description: "blends two colours",
		Inputs: []SocketTemplate{
			valueSocket("Fac", 1), colorSocket("Image1", white), colorSocket("Image2", white),
		},
		Outputs: []SocketTemplate{colorSocket("Image", Pixel{})},
		new:     func() Node { return &MixNode{} },
	},
	{
		Kind:        "reroute",
		Description: "passes its input through",
		Inputs:      []SocketTemplate{colorSocket("Input", Pixel{})},
		Outputs:     []SocketTemplate{colorSocket("Output", Pixel{})},
		new:         func() Node { return &RerouteNode{} },
	},
	{
		Kind:        "rgb",
		Description: "constant colour",
		Outputs:     []SocketTemplate{colorSocket("RGBA", Pixel{})},
		new:         func() Node { return &RGBNode{} },
	},
	{
		Kind:        "separate_rgba",
		Description: "splits a colour into four values",
		Inputs:      []SocketTemplate{colorSocket("Image", white)},
		Outputs: []SocketTemplate{
			valueSocket("R", 0), valueSocket("G", 0), valueSocket("B", 0), valueSocket("A", 0),
		},
		new: func() Node { return &SeparateRGBANode{} },
	},
	{
		Kind:        "set_alpha",
		Description: "replaces the alpha channel",
		Inputs:      []SocketTemplate{colorSocket("Image", white), valueSocket("Alpha", 1)},
		Outputs:     []SocketTemplate{colorSocket("Image", Pixel{})},
		new:         func() Node { return &SetAlphaNode{} },
	},
	{
		Kind:        "texture",
		Description: "procedural checker, blend or ring pattern",
		Outputs:     []SocketTemplate{valueSocket("Value", 0), colorSocket("Color", Pixel{})},
		new:         func() Node { return &TextureNode{} },
	},
	{
		Kind:        "transform",
		Description: "scales about the canvas centre and offsets",
		Inputs:      []SocketTemplate{colorSocket("Image", Pixel{})},
		Outputs:     []SocketTemplate{colorSocket("Image", Pixel{})},
		new:         func() Node { return &TransformNode{} },
	},
	{
		Kind:        "value",
		Description: "constant value",
		Outputs:     []SocketTemplate{valueSocket("Value", 0)},
		new:         func() Node { return &ValueNode{} },
	},
	{
		Kind:        "vector",
		Description: "constant vector",
		Outputs:     []SocketTemplate{vectorSocket("Vector")},
		new:         func() Node { return &VectorNode{} },
	},
	{
		Kind:        "viewer",
		Description: "preview output",
		Inputs: []SocketTemplate{
			colorSocket("Image", Pixel{}),
			{Name: "Alpha", Type: DataTypeValue, Default: ValuePixel(1), Optional: true},
		},
		new: func() Node { return &OutputNode{} },
	},
}

// LookupNodeType returns the node type of kind.
func LookupNodeType(kind string) (NodeType, bool) {
	i, ok := slices.BinarySearchFunc(nodeTypes, kind, func(t NodeType, k string) int {
		return strings.Compare(t.Kind, k)
	})
	if !ok {
		return NodeType{}, false
	}
	return nodeTypes[i], true
}

// NodeTypes returns every node type sorted by kind.
func NodeTypes() []NodeType {
	return slices.Clone(nodeTypes)
}

// NewNode instantiates the node for an editor vertex.
func NewNode(editor *TreeNode) (Node, error) {
	i, ok := slices.BinarySearchFunc(nodeTypes, editor.Kind, func(t NodeType, k string) int {
		return strings.Compare(t.Kind, k)
	})
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeKind, editor.Kind)
	}
	typ := &nodeTypes[i]
	n := typ.new()
	n.Base().setup(n, editor, typ)
	return n, nil
}
