package compositor

// SeparateChannelOperation extracts one channel of a colour as a value.
type SeparateChannelOperation struct {
	OperationBase
	channel int
}

var channelNames = [4]string{"R", "G", "B", "A"}

// NewSeparateChannelOperation extracts channel 0..3 (R, G, B, A).
func NewSeparateChannelOperation(channel int) *SeparateChannelOperation {
	op := &SeparateChannelOperation{channel: channel}
	op.setup("Separate"+channelNames[channel], &SocketTemplate{Name: "Value", Type: DataTypeValue},
		colorSocket("Image", white))
	return op
}

// InitExecution binds the input reader.
func (op *SeparateChannelOperation) InitExecution(in Inputs) (Executor, error) {
	e := &separateExecutor{channel: op.channel}
	e.bind(in)
	return e, nil
}

type separateExecutor struct {
	readers
	channel int
}

func (e *separateExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var c Pixel
	e.read(0, &c, x, y, s)
	*out = Pixel{c[e.channel]}
}

// CombineChannelsOperation builds a colour from four values.
type CombineChannelsOperation struct {
	OperationBase
}

// NewCombineChannelsOperation creates a channel combiner. Inputs are R, G,
// B and A.
func NewCombineChannelsOperation() *CombineChannelsOperation {
	op := &CombineChannelsOperation{}
	op.setup("CombineChannels", &SocketTemplate{Name: "Image", Type: DataTypeColor},
		valueSocket("R", 0), valueSocket("G", 0), valueSocket("B", 0), valueSocket("A", 1))
	return op
}

// InitExecution binds the input readers.
func (op *CombineChannelsOperation) InitExecution(in Inputs) (Executor, error) {
	e := &combineExecutor{}
	e.bind(in)
	return e, nil
}

type combineExecutor struct {
	readers
}

func (e *combineExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var v Pixel
	for i := range 4 {
		e.read(i, &v, x, y, s)
		out[i] = v[0]
	}
}

// SetAlphaOperation replaces the alpha of a colour.
type SetAlphaOperation struct {
	OperationBase
}

// NewSetAlphaOperation creates an alpha replacement. Inputs are Image and
// Alpha.
func NewSetAlphaOperation() *SetAlphaOperation {
	op := &SetAlphaOperation{}
	op.setup("SetAlpha", &SocketTemplate{Name: "Image", Type: DataTypeColor},
		colorSocket("Image", white), valueSocket("Alpha", 1))
	return op
}

// InitExecution binds the input readers.
func (op *SetAlphaOperation) InitExecution(in Inputs) (Executor, error) {
	e := &setAlphaExecutor{}
	e.bind(in)
	return e, nil
}

type setAlphaExecutor struct {
	readers
}

func (e *setAlphaExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var a Pixel
	e.read(0, out, x, y, s)
	e.read(1, &a, x, y, s)
	out[3] = a[0]
}
