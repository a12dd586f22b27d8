package image

import (
	"errors"
	"testing"
)

func TestNewFloatBuf(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr error
	}{
		{"valid", 3, 2, nil},
		{"zero width", 0, 2, ErrInvalidDimensions},
		{"negative height", 2, -1, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewFloatBuf(tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewFloatBuf(%d, %d) err = %v, want %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := len(buf.Pix()); got != tt.w*tt.h*Channels {
				t.Errorf("len(Pix()) = %d, want %d", got, tt.w*tt.h*Channels)
			}
		})
	}
}

func TestFloatBufSetAt(t *testing.T) {
	buf, _ := NewFloatBuf(4, 4)
	p := [4]float32{0.1, 0.2, 0.3, 0.4}
	if err := buf.Set(2, 3, p); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := buf.At(2, 3); got != p {
		t.Errorf("At(2, 3) = %v, want %v", got, p)
	}
	if err := buf.Set(4, 0, p); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set(4, 0) err = %v, want ErrOutOfBounds", err)
	}
}

func TestFloatBufFillClearClone(t *testing.T) {
	buf, _ := NewFloatBuf(2, 2)
	buf.Fill([4]float32{1, 1, 1, 1})
	clone := buf.Clone()
	buf.Clear()

	if got := buf.At(1, 1); got != ([4]float32{}) {
		t.Errorf("after Clear At(1, 1) = %v, want zero", got)
	}
	if got := clone.At(1, 1); got != ([4]float32{1, 1, 1, 1}) {
		t.Errorf("clone At(1, 1) = %v, want ones", got)
	}
}
