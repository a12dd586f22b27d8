package compositor

import (
	"strconv"
	"sync/atomic"
)

// OperationID is the handle of an operation inside its ExecutionSystem.
type OperationID int

// NoOperation is the ID of an operation that has not been registered.
const NoOperation OperationID = -1

// String returns "op#N".
func (id OperationID) String() string {
	if id == NoOperation {
		return "op#-"
	}
	return "op#" + strconv.Itoa(int(id))
}

// Operation is an executable unit of the lowered graph. The value itself is
// immutable configuration; per-job state lives in the Executor returned by
// InitExecution.
type Operation interface {
	// Base returns the sockets and identity shared by all operations.
	Base() *OperationBase

	// InitExecution resolves the inputs and returns an Executor valid until
	// its DeinitExecution.
	InitExecution(in Inputs) (Executor, error)
}

// Executor evaluates one initialised operation.
type Executor interface {
	// ExecutePixel writes the value at (x, y) into out. It is pure with
	// respect to its inputs and safe for concurrent use. Calling it after
	// DeinitExecution panics with ErrNotInitialized.
	ExecutePixel(out *Pixel, x, y float64, sampler PixelSampler)

	// DeinitExecution releases references to inputs and buffers.
	// Calling it more than once has no effect.
	DeinitExecution()
}

// BufferedOperation is implemented by operations that read their inputs at
// arbitrary coordinates. The execution system renders every connected input
// into a MemoryBuffer before calling InitExecution.
type BufferedOperation interface {
	Operation
	RequiresBufferedInputs() bool
}

// OutputOperation is implemented by sink operations that produce a job
// result. Their executors implement RegionExecutor.
type OutputOperation interface {
	Operation
	OutputName() string
}

// RegionExecutor is the executor of an OutputOperation.
type RegionExecutor interface {
	Executor

	// ExecuteRegion evaluates the half-open rectangle [x0,x1) x [y0,y1) into
	// the result buffer. Distinct regions may run concurrently.
	ExecuteRegion(x0, y0, x1, y1 int, sampler PixelSampler)

	// Result returns the buffer written by ExecuteRegion. It stays valid
	// after DeinitExecution.
	Result() *MemoryBuffer
}

// OperationBase holds the sockets and handle of an operation. Concrete
// operations embed it.
type OperationBase struct {
	id     OperationID
	name   string
	inputs []*InputSocket
	output *OutputSocket
}

// setup creates the sockets. A nil output template makes a sink.
func (b *OperationBase) setup(name string, output *SocketTemplate, inputs ...SocketTemplate) {
	b.id = NoOperation
	b.name = name
	owner := socketOwner{op: b}
	b.inputs = make([]*InputSocket, len(inputs))
	for i, t := range inputs {
		b.inputs[i] = newInputSocket(owner, i, t)
	}
	if output != nil {
		b.output = newOutputSocket(owner, 0, *output)
	}
}

// Base returns b.
func (b *OperationBase) Base() *OperationBase { return b }

// ID returns the handle assigned by ExecutionSystem.AddOperation, or
// NoOperation.
func (b *OperationBase) ID() OperationID { return b.id }

// Name returns the operation name.
func (b *OperationBase) Name() string { return b.name }

// Inputs returns the input sockets in order.
func (b *OperationBase) Inputs() []*InputSocket { return b.inputs }

// Input returns input socket i.
func (b *OperationBase) Input(i int) *InputSocket { return b.inputs[i] }

// Output returns the output socket, or nil for sinks.
func (b *OperationBase) Output() *OutputSocket { return b.output }

// String returns "name(op#N)".
func (b *OperationBase) String() string {
	return b.name + "(" + b.id.String() + ")"
}

// Inputs is handed to InitExecution. Index i corresponds to input socket i.
type Inputs struct {
	readers       []Executor
	buffers       []*MemoryBuffer
	width, height int
}

// NewInputs builds an Inputs value for a job of the given size. It is
// useful for driving an operation outside an ExecutionSystem.
func NewInputs(width, height int, readers []Executor, buffers []*MemoryBuffer) Inputs {
	return Inputs{readers: readers, buffers: buffers, width: width, height: height}
}

// Len returns the number of input slots.
func (in Inputs) Len() int { return len(in.readers) }

// Reader returns the executor feeding input i, or nil when an optional input
// is unconnected.
func (in Inputs) Reader(i int) Executor {
	if i >= len(in.readers) {
		return nil
	}
	return in.readers[i]
}

// Buffer returns the materialised buffer of input i, or nil.
func (in Inputs) Buffer(i int) *MemoryBuffer {
	if i >= len(in.buffers) {
		return nil
	}
	return in.buffers[i]
}

// Size returns the job resolution.
func (in Inputs) Size() (width, height int) { return in.width, in.height }

// window tracks the init/deinit window of an executor.
type window struct {
	closed atomic.Bool
}

// check panics once the window is closed.
func (w *window) check() {
	if w.closed.Load() {
		panic(ErrNotInitialized)
	}
}

// close reports whether this call closed the window.
func (w *window) close() bool {
	return !w.closed.Swap(true)
}

// readers is the common state of executors that pull from upstream
// executors. Embedders implement ExecutePixel and start it with check.
type readers struct {
	window
	in []Executor
}

// bind captures the upstream executors of in.
func (r *readers) bind(in Inputs) {
	r.in = append([]Executor(nil), in.readers...)
}

// read evaluates input i at (x, y).
func (r *readers) read(i int, out *Pixel, x, y float64, s PixelSampler) {
	r.in[i].ExecutePixel(out, x, y, s)
}

// DeinitExecution drops the upstream references.
func (r *readers) DeinitExecution() {
	if r.close() {
		r.in = nil
	}
}
