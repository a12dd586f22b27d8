package compositor

// allChannels makes a bufferExecutor return whole pixels.
const allChannels = -1

// bufferExecutor serves pixels from a MemoryBuffer.
type bufferExecutor struct {
	window
	buf *MemoryBuffer

	// channel, when not allChannels, is moved to channel 0 of a value.
	channel int
}

func (e *bufferExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	e.buf.Sample(out, x, y, s)
	if e.channel != allChannels {
		*out = Pixel{out[e.channel]}
	}
}

func (e *bufferExecutor) DeinitExecution() {
	if e.close() {
		e.buf = nil
	}
}

// ImageOperation reads an image placed at the canvas origin. The alpha
// variant outputs the image alpha as a value.
type ImageOperation struct {
	OperationBase
	ref    ImageRef
	source ImageSource
	alpha  bool
}

// NewImageOperation creates an operation reading ref from source.
func NewImageOperation(ref ImageRef, source ImageSource) *ImageOperation {
	op := &ImageOperation{ref: ref, source: source}
	op.setup("Image", &SocketTemplate{Name: "Image", Type: DataTypeColor})
	return op
}

// NewImageAlphaOperation creates an operation reading the alpha of ref.
func NewImageAlphaOperation(ref ImageRef, source ImageSource) *ImageOperation {
	op := &ImageOperation{ref: ref, source: source, alpha: true}
	op.setup("ImageAlpha", &SocketTemplate{Name: "Alpha", Type: DataTypeValue})
	return op
}

// Ref returns the image reference.
func (op *ImageOperation) Ref() ImageRef { return op.ref }

// InitExecution fetches the image from the source.
func (op *ImageOperation) InitExecution(Inputs) (Executor, error) {
	buf, err := op.source.Image(op.ref)
	if err != nil {
		return nil, err
	}
	ch := allChannels
	if op.alpha {
		ch = 3
	}
	return &bufferExecutor{buf: buf, channel: ch}, nil
}
