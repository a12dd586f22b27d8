package compositor

import (
	"fmt"
	"slices"
)

// Properties holds the settings of an editor node. Values are float64,
// int, bool, string or []any of those, as produced by job file decoders.
type Properties map[string]any

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	default:
		return 0, false
	}
}

// Float returns the number stored under key, or def when absent.
func (p Properties) Float(key string, def float32) (float32, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidProperty, key, v)
	}
	return f, nil
}

// Bool returns the boolean stored under key, or def when absent.
func (p Properties) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidProperty, key, v)
	}
	return b, nil
}

// String returns the string stored under key, or def when absent.
func (p Properties) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidProperty, key, v)
	}
	return s, nil
}

// Floats returns the list of numbers stored under key. The second result is
// false when the key is absent.
func (p Properties) Floats(key string) ([]float32, bool, error) {
	v, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	out, err := floatList(v)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %w", ErrInvalidProperty, key, err)
	}
	return out, true, nil
}

// Pixel returns up to four numbers stored under key on top of def.
func (p Properties) Pixel(key string, def Pixel) (Pixel, error) {
	vals, ok, err := p.Floats(key)
	if err != nil || !ok {
		return def, err
	}
	if len(vals) > 4 {
		return def, fmt.Errorf("%w: %s has %d components, want at most 4", ErrInvalidProperty, key, len(vals))
	}
	out := def
	copy(out[:], vals)
	return out, nil
}

// Points returns a list of [x, y] pairs stored under key. The second result
// is false when the key is absent.
func (p Properties) Points(key string) ([][2]float32, bool, error) {
	v, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, true, fmt.Errorf("%w: %s must be a list of [x, y] pairs", ErrInvalidProperty, key)
	}
	out := make([][2]float32, len(list))
	for i, item := range list {
		xy, err := floatList(item)
		if err != nil || len(xy) != 2 {
			return nil, true, fmt.Errorf("%w: %s[%d] must be an [x, y] pair", ErrInvalidProperty, key, i)
		}
		out[i] = [2]float32{xy[0], xy[1]}
	}
	return out, true, nil
}

func floatList(v any) ([]float32, error) {
	switch l := v.(type) {
	case []float64:
		out := make([]float32, len(l))
		for i, f := range l {
			out[i] = float32(f)
		}
		return out, nil
	case []float32:
		return slices.Clone(l), nil
	case []any:
		out := make([]float32, len(l))
		for i, item := range l {
			f, ok := toFloat(item)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, not a number", i, item)
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of numbers, got %T", v)
	}
}

// TreeNode is a vertex of the editor graph.
type TreeNode struct {
	Name string
	Kind string

	// Muted nodes pass their first matching input through unchanged.
	Muted bool

	Properties Properties

	// Defaults overrides the default value of input sockets by name.
	Defaults map[string]Pixel
}

// TreeLink connects FromNode.FromSocket to ToNode.ToSocket.
type TreeLink struct {
	FromNode, FromSocket string
	ToNode, ToSocket     string
}

// String returns "from.socket -> to.socket".
func (l *TreeLink) String() string {
	return l.FromNode + "." + l.FromSocket + " -> " + l.ToNode + "." + l.ToSocket
}

// Tree is the editor graph of one job.
type Tree struct {
	Nodes []*TreeNode
	Links []*TreeLink
}

// AddNode appends a node and returns it for further setup.
func (t *Tree) AddNode(kind, name string) *TreeNode {
	n := &TreeNode{Name: name, Kind: kind, Properties: Properties{}}
	t.Nodes = append(t.Nodes, n)
	return n
}

// Link appends a link.
func (t *Tree) Link(fromNode, fromSocket, toNode, toSocket string) {
	t.Links = append(t.Links, &TreeLink{
		FromNode: fromNode, FromSocket: fromSocket,
		ToNode: toNode, ToSocket: toSocket,
	})
}

// Node returns the node with the given name, or nil.
func (t *Tree) Node(name string) *TreeNode {
	for _, n := range t.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Validate checks node kinds, names, socket names and link fan-in, and
// rejects cycles.
func (t *Tree) Validate() error {
	_, err := t.sorted()
	return err
}

// sorted validates the tree and returns its nodes in dependency order.
// Independent nodes keep their declaration order.
func (t *Tree) sorted() ([]*TreeNode, error) {
	index := make(map[string]int, len(t.Nodes))
	for i, n := range t.Nodes {
		if _, dup := index[n.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, n.Name)
		}
		typ, ok := LookupNodeType(n.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: %q (node %q)", ErrUnknownNodeKind, n.Kind, n.Name)
		}
		for name := range n.Defaults {
			if typ.inputIndex(name) < 0 {
				return nil, fmt.Errorf("%w: %s has no input %q", ErrUnknownSocket, n.Name, name)
			}
		}
		index[n.Name] = i
	}

	indegree := make([]int, len(t.Nodes))
	next := make([][]int, len(t.Nodes))
	linked := make(map[[2]string]bool)
	for _, l := range t.Links {
		from, ok := index[l.FromNode]
		if !ok {
			return nil, fmt.Errorf("%w: %q in link %s", ErrUnknownNode, l.FromNode, l)
		}
		to, ok := index[l.ToNode]
		if !ok {
			return nil, fmt.Errorf("%w: %q in link %s", ErrUnknownNode, l.ToNode, l)
		}
		fromType, _ := LookupNodeType(t.Nodes[from].Kind)
		if fromType.outputIndex(l.FromSocket) < 0 {
			return nil, fmt.Errorf("%w: %s has no output %q", ErrUnknownSocket, l.FromNode, l.FromSocket)
		}
		toType, _ := LookupNodeType(t.Nodes[to].Kind)
		if toType.inputIndex(l.ToSocket) < 0 {
			return nil, fmt.Errorf("%w: %s has no input %q", ErrUnknownSocket, l.ToNode, l.ToSocket)
		}
		key := [2]string{l.ToNode, l.ToSocket}
		if linked[key] {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateLink, l.ToNode, l.ToSocket)
		}
		linked[key] = true

		next[from] = append(next[from], to)
		indegree[to]++
	}

	order := make([]*TreeNode, 0, len(t.Nodes))
	ready := make([]int, 0, len(t.Nodes))
	for i, d := range indegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}
	for len(ready) > 0 {
		slices.Sort(ready)
		i := ready[0]
		ready = ready[1:]
		order = append(order, t.Nodes[i])
		for _, j := range next[i] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}
	if len(order) != len(t.Nodes) {
		var stuck []string
		for i, d := range indegree {
			if d > 0 {
				stuck = append(stuck, t.Nodes[i].Name)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrCycle, stuck)
	}
	return order, nil
}

// invalidProperty marks err as a property error.
func invalidProperty(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidProperty, err)
}

type errMissing string

func (e errMissing) Error() string { return string(e) + " is required" }
