package compositor

// SocketTemplate describes a socket of a node or operation.
type SocketTemplate struct {
	Name    string
	Type    DataType
	Default Pixel

	// Optional inputs stay unconnected instead of receiving a constant
	// operation when nothing is linked to them.
	Optional bool
}

// Connection joins an output socket to an input socket. Relinking moves the
// endpoints of an existing Connection; its identity is preserved.
type Connection struct {
	from *OutputSocket
	to   *InputSocket
}

// From returns the upstream socket.
func (c *Connection) From() *OutputSocket { return c.from }

// To returns the downstream socket.
func (c *Connection) To() *InputSocket { return c.to }

// detach removes c from both endpoints.
func (c *Connection) detach() {
	if c.to != nil && c.to.link == c {
		c.to.link = nil
	}
	if c.from != nil {
		c.from.removeLink(c)
	}
	c.from, c.to = nil, nil
}

// link connects from to to, replacing any connection to already has.
func link(from *OutputSocket, to *InputSocket) *Connection {
	if to.link != nil {
		to.link.detach()
	}
	c := &Connection{from: from, to: to}
	from.links = append(from.links, c)
	to.link = c
	return c
}

// socketOwner records which node or operation a socket belongs to. Exactly
// one of the fields is set.
type socketOwner struct {
	node Node
	op   *OperationBase
}

// Node returns the owning node, or nil for operation sockets.
func (o socketOwner) Node() Node { return o.node }

// Operation returns the owning operation, or nil for node sockets.
func (o socketOwner) Operation() *OperationBase { return o.op }

func (o socketOwner) ownerName() string {
	switch {
	case o.node != nil:
		return o.node.Base().Name()
	case o.op != nil:
		return o.op.Name()
	default:
		return "?"
	}
}

// InputSocket is a typed input of a node or operation. It has at most one
// incoming connection.
type InputSocket struct {
	socketOwner
	tmpl  SocketTemplate
	index int
	link  *Connection
}

func newInputSocket(owner socketOwner, index int, tmpl SocketTemplate) *InputSocket {
	return &InputSocket{socketOwner: owner, tmpl: tmpl, index: index}
}

// Name returns the socket name.
func (s *InputSocket) Name() string { return s.tmpl.Name }

// Index returns the position of the socket on its owner.
func (s *InputSocket) Index() int { return s.index }

// DataType returns the socket type. It never changes.
func (s *InputSocket) DataType() DataType { return s.tmpl.Type }

// Default returns the value used when nothing is connected.
func (s *InputSocket) Default() Pixel { return s.tmpl.Default }

// Optional reports whether the socket may stay unconnected.
func (s *InputSocket) Optional() bool { return s.tmpl.Optional }

// Connection returns the incoming connection, or nil.
func (s *InputSocket) Connection() *Connection { return s.link }

// IsConnected reports whether a connection arrives at the socket.
func (s *InputSocket) IsConnected() bool { return s.link != nil }

// Source returns the upstream output socket, or nil.
func (s *InputSocket) Source() *OutputSocket {
	if s.link == nil {
		return nil
	}
	return s.link.from
}

// String returns "owner.socket".
func (s *InputSocket) String() string {
	return s.ownerName() + "." + s.tmpl.Name
}

// RelinkConnections moves the incoming connection of s onto to. When s is
// unconnected and autoconnect is set, a constant operation carrying the
// default of s is registered with system and linked to to instead.
func (s *InputSocket) RelinkConnections(to *InputSocket, autoconnect bool, system *ExecutionSystem) {
	if s == to {
		return
	}
	c := s.link
	if c == nil {
		if autoconnect {
			set := NewSetOperation(s.tmpl.Type, s.tmpl.Default)
			system.AddOperation(set)
			link(set.Output(), to)
		}
		return
	}

	s.link = nil
	if to.link != nil {
		to.link.detach()
	}
	c.to = to
	to.link = c
}

// OutputSocket is a typed output of a node or operation. It may feed any
// number of inputs; the order of its connections is preserved by relinking.
type OutputSocket struct {
	socketOwner
	tmpl  SocketTemplate
	index int
	links []*Connection
}

func newOutputSocket(owner socketOwner, index int, tmpl SocketTemplate) *OutputSocket {
	return &OutputSocket{socketOwner: owner, tmpl: tmpl, index: index}
}

// Name returns the socket name.
func (s *OutputSocket) Name() string { return s.tmpl.Name }

// Index returns the position of the socket on its owner.
func (s *OutputSocket) Index() int { return s.index }

// DataType returns the socket type. It never changes.
func (s *OutputSocket) DataType() DataType { return s.tmpl.Type }

// Connections returns a copy of the outgoing connections in link order.
func (s *OutputSocket) Connections() []*Connection {
	return append([]*Connection(nil), s.links...)
}

// IsConnected reports whether the socket feeds at least one input.
func (s *OutputSocket) IsConnected() bool { return len(s.links) > 0 }

// String returns "owner.socket".
func (s *OutputSocket) String() string {
	return s.ownerName() + "." + s.tmpl.Name
}

// RelinkConnections moves every outgoing connection of s onto to, appending
// them after the connections to already has, in their original order.
func (s *OutputSocket) RelinkConnections(to *OutputSocket) {
	if s == to || len(s.links) == 0 {
		return
	}
	for _, c := range s.links {
		c.from = to
	}
	to.links = append(to.links, s.links...)
	s.links = nil
}

func (s *OutputSocket) removeLink(c *Connection) {
	for i, l := range s.links {
		if l == c {
			s.links = append(s.links[:i], s.links[i+1:]...)
			return
		}
	}
}
