package gpu

import "errors"

// ErrUnavailable reports that no GPU device could be opened.
var ErrUnavailable = errors.New("gpu: no usable GPU device")
