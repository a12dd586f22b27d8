package compositor

import (
	"fmt"
	"slices"

	"github.com/gogpu/compositor/internal/image"
)

// maxPooledBuffers bounds the buffers kept per size between jobs.
const maxPooledBuffers = 8

// ExecutionSystem owns the operations of one job. Operations are stored in
// insertion order and addressed by OperationID.
type ExecutionSystem struct {
	ctx     *Context
	ops     []Operation
	buffers *image.Pool
}

// NewExecutionSystem creates an empty system for ctx.
func NewExecutionSystem(ctx *Context) *ExecutionSystem {
	return &ExecutionSystem{ctx: ctx, buffers: image.NewPool(maxPooledBuffers)}
}

// Context returns the job configuration.
func (s *ExecutionSystem) Context() *Context { return s.ctx }

// AddOperation takes ownership of op and assigns its handle. Adding the same
// operation twice is a caller error and is not detected.
func (s *ExecutionSystem) AddOperation(op Operation) OperationID {
	id := OperationID(len(s.ops))
	op.Base().id = id
	s.ops = append(s.ops, op)
	return id
}

// AddLink connects from to to, replacing any link to already has.
func (s *ExecutionSystem) AddLink(from *OutputSocket, to *InputSocket) *Connection {
	return link(from, to)
}

// Operation returns the operation with the given handle.
func (s *ExecutionSystem) Operation(id OperationID) Operation {
	if id < 0 || int(id) >= len(s.ops) {
		return nil
	}
	return s.ops[id]
}

// Operations returns the operations in insertion order.
func (s *ExecutionSystem) Operations() []Operation {
	return slices.Clone(s.ops)
}

// Len returns the number of operations.
func (s *ExecutionSystem) Len() int { return len(s.ops) }

// Connections returns every link arriving at an operation input, ordered by
// operation and socket index.
func (s *ExecutionSystem) Connections() []*Connection {
	var out []*Connection
	for _, op := range s.ops {
		for _, in := range op.Base().Inputs() {
			if c := in.Connection(); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// Outputs returns the output operations in insertion order.
func (s *ExecutionSystem) Outputs() []OutputOperation {
	var out []OutputOperation
	for _, op := range s.ops {
		if o, ok := op.(OutputOperation); ok {
			out = append(out, o)
		}
	}
	return out
}

// Resolve finishes the graph after node conversion: links left on node
// sockets are dropped, conversions are inserted between sockets of
// different types and unconnected required inputs receive their default
// as a constant. It fails if an input still points outside the system or
// the operations form a cycle.
func (s *ExecutionSystem) Resolve() error {
	s.pruneNodeLinks()

	// Operations added below are already consistent.
	ops := slices.Clone(s.ops)
	for _, op := range ops {
		for _, in := range op.Base().Inputs() {
			from := in.Source()
			if from == nil {
				if !in.Optional() {
					set := NewSetOperation(in.DataType(), in.Default())
					s.AddOperation(set)
					s.AddLink(set.Output(), in)
				}
				continue
			}
			if from.DataType() != in.DataType() {
				conv := NewConvertOperation(from.DataType(), in.DataType())
				s.AddOperation(conv)
				in.RelinkConnections(conv.Input(0), false, s)
				s.AddLink(conv.Output(), in)
			}
		}
	}

	if err := s.checkInputs(); err != nil {
		return err
	}
	_, err := s.order()
	return err
}

// checkInputs fails with ErrDanglingSocket when a required input has no
// source or an input is fed by an operation outside the system.
func (s *ExecutionSystem) checkInputs() error {
	for _, op := range s.ops {
		for _, in := range op.Base().Inputs() {
			from := in.Source()
			if from == nil {
				if !in.Optional() {
					return fmt.Errorf("%w: %s is not connected", ErrDanglingSocket, in)
				}
				continue
			}
			src := from.Operation()
			if src == nil || src.id < 0 || int(src.id) >= len(s.ops) || s.ops[src.id].Base() != src {
				return fmt.Errorf("%w: %s is fed by unregistered %s", ErrDanglingSocket, in, from)
			}
		}
	}
	return nil
}

// pruneNodeLinks drops every connection with an endpoint on a node socket.
// Such links remain when a node leaves an input unused.
func (s *ExecutionSystem) pruneNodeLinks() {
	for _, op := range s.ops {
		b := op.Base()
		for _, in := range b.Inputs() {
			if c := in.Connection(); c != nil && c.From().Operation() == nil {
				c.detach()
			}
		}
		if out := b.Output(); out != nil {
			for _, c := range out.Connections() {
				if c.To().Operation() == nil {
					c.detach()
				}
			}
		}
	}
}

// order returns the operations so that every operation follows the
// operations feeding it. Independent operations keep insertion order.
func (s *ExecutionSystem) order() ([]Operation, error) {
	n := len(s.ops)
	indegree := make([]int, n)
	next := make([][]OperationID, n)
	for id, op := range s.ops {
		for _, in := range op.Base().Inputs() {
			from := in.Source()
			if from == nil || from.Operation() == nil {
				continue
			}
			src := from.Operation().id
			if src < 0 || int(src) >= n {
				return nil, fmt.Errorf("%w: %s is fed by unregistered %s", ErrDanglingSocket, in, from)
			}
			next[src] = append(next[src], OperationID(id))
			indegree[id]++
		}
	}

	ready := make([]OperationID, 0, n)
	for id, d := range indegree {
		if d == 0 {
			ready = append(ready, OperationID(id))
		}
	}
	out := make([]Operation, 0, n)
	for len(ready) > 0 {
		slices.Sort(ready)
		id := ready[0]
		ready = ready[1:]
		out = append(out, s.ops[id])
		for _, m := range next[id] {
			indegree[m]--
			if indegree[m] == 0 {
				ready = append(ready, m)
			}
		}
	}
	if len(out) != n {
		return nil, fmt.Errorf("%w: %d of %d operations unreachable", ErrCycle, n-len(out), n)
	}
	return out, nil
}
