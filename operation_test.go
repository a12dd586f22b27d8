package compositor

import (
	"errors"
	"reflect"
	"testing"
)

func near(a, b Pixel, eps float32) bool {
	for i := range a {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

// constInputs returns Inputs whose readers return the given constants.
func constInputs(t *testing.T, values ...Pixel) Inputs {
	t.Helper()
	readers := make([]Executor, len(values))
	for i, v := range values {
		e, err := NewSetOperation(DataTypeColor, v).InitExecution(Inputs{})
		if err != nil {
			t.Fatalf("InitExecution: %v", err)
		}
		readers[i] = e
	}
	return NewInputs(8, 8, readers, nil)
}

func evalAt(t *testing.T, op Operation, x, y float64, values ...Pixel) Pixel {
	t.Helper()
	e, err := op.InitExecution(constInputs(t, values...))
	if err != nil {
		t.Fatalf("InitExecution: %v", err)
	}
	defer e.DeinitExecution()
	var out Pixel
	e.ExecutePixel(&out, x, y, SamplerBilinear)
	return out
}

func TestConvertPixel(t *testing.T) {
	in := Pixel{0.2, 0.4, 0.6, 0.5}
	tests := []struct {
		from, to DataType
		want     Pixel
	}{
		{DataTypeValue, DataTypeColor, Pixel{0.2, 0.2, 0.2, 1}},
		{DataTypeValue, DataTypeVector, Pixel{0.2, 0.2, 0.2, 0}},
		{DataTypeColor, DataTypeValue, Pixel{0.35*0.2 + 0.45*0.4 + 0.2*0.6}},
		{DataTypeColor, DataTypeVector, Pixel{0.2, 0.4, 0.6, 0}},
		{DataTypeVector, DataTypeValue, Pixel{0.4}},
		{DataTypeVector, DataTypeColor, Pixel{0.2, 0.4, 0.6, 1}},
		{DataTypeColor, DataTypeColor, in},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			got := ConvertPixel(tt.from, tt.to, in)
			if !near(got, tt.want, 1e-6) {
				t.Errorf("ConvertPixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVectorToColorForcesOpaqueAlpha(t *testing.T) {
	for _, v := range []Pixel{{0.1, 0.2, 0.3, 0}, {1, 1, 1, 0.25}, {-2, 5, 0, 7}} {
		got := evalAt(t, NewConvertOperation(DataTypeVector, DataTypeColor), 0, 0, v)
		if got[3] != 1 {
			t.Errorf("alpha of %v = %v, want 1", v, got[3])
		}
		if got[0] != v[0] || got[1] != v[1] || got[2] != v[2] {
			t.Errorf("xyz of %v = %v", v, got)
		}
	}
}

func TestMixAdd(t *testing.T) {
	fac := ValuePixel(0.5)
	c1 := Pixel{0.2, 0.2, 0.2, 1}
	c2 := Pixel{0.4, 0.4, 0.4, 0.8}

	tests := []struct {
		name     string
		useAlpha bool
		want     Pixel
	}{
		{"without alpha", false, Pixel{0.4, 0.4, 0.4, 1}},
		{"with alpha", true, Pixel{0.36, 0.36, 0.36, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewMixOperation(MixParams{Mode: BlendAdd, UseAlpha: tt.useAlpha})
			got := evalAt(t, op, 3, 3, fac, c1, c2)
			if !near(got, tt.want, 1e-6) {
				t.Errorf("mix add = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMixClamp(t *testing.T) {
	p := MixParams{Mode: BlendAdd, Clamp: true}
	got := MixPixel(p, 1, Pixel{0.8, 0.8, 0.8, 1}, Pixel{0.5, 0.5, 0.5, 1})
	if want := (Pixel{1, 1, 1, 1}); got != want {
		t.Errorf("clamped add = %v, want %v", got, want)
	}
}

func TestInvert(t *testing.T) {
	c := Pixel{0.25, 0.5, 1, 0.4}
	got := evalAt(t, NewInvertOperation(true, false), 0, 0, ValuePixel(1), c)
	if want := (Pixel{0.75, 0.5, 0, 0.4}); !near(got, want, 1e-6) {
		t.Errorf("invert rgb = %v, want %v", got, want)
	}
	got = evalAt(t, NewInvertOperation(false, true), 0, 0, ValuePixel(0.5), c)
	if want := (Pixel{0.25, 0.5, 1, 0.5}); !near(got, want, 1e-6) {
		t.Errorf("invert alpha at half = %v, want %v", got, want)
	}
}

func TestChannelOperations(t *testing.T) {
	c := Pixel{0.1, 0.2, 0.3, 0.4}
	for ch := range 4 {
		got := evalAt(t, NewSeparateChannelOperation(ch), 0, 0, c)
		if got[0] != c[ch] {
			t.Errorf("separate %d = %v, want %v", ch, got[0], c[ch])
		}
	}
	got := evalAt(t, NewCombineChannelsOperation(), 0, 0,
		ValuePixel(0.1), ValuePixel(0.2), ValuePixel(0.3), ValuePixel(0.4))
	if got != c {
		t.Errorf("combine = %v, want %v", got, c)
	}
	got = evalAt(t, NewSetAlphaOperation(), 0, 0, c, ValuePixel(0.9))
	if want := (Pixel{0.1, 0.2, 0.3, 0.9}); got != want {
		t.Errorf("set alpha = %v, want %v", got, want)
	}
}

func TestColorCurveLevels(t *testing.T) {
	op := NewColorCurveOperation(CurveMapping{})
	c := Pixel{0.5, 0.25, 0.75, 0.3}
	black := Pixel{0.25, 0.25, 0.25, 1}
	white := Pixel{0.75, 0.75, 0.75, 1}

	got := evalAt(t, op, 0, 0, ValuePixel(1), c, black, white)
	if want := (Pixel{0.5, 0, 1, 0.3}); !near(got, want, 1e-6) {
		t.Errorf("levels = %v, want %v", got, want)
	}
	got = evalAt(t, op, 0, 0, ValuePixel(0), c, black, white)
	if got != c {
		t.Errorf("fac 0 = %v, want input %v", got, c)
	}
}

func TestHSVRoundTrip(t *testing.T) {
	c := Pixel{0.8, 0.3, 0.1, 0.6}
	hsv := evalAt(t, NewRGBToHSVOperation(), 0, 0, c)
	rgb := evalAt(t, NewHSVToRGBOperation(), 0, 0, hsv)
	if !near(rgb, c, 1e-5) {
		t.Errorf("round trip = %v, want %v", rgb, c)
	}

	flat := FlatCurve(0.5)
	if got := CorrectHSV(hsv, flat, flat, flat); !near(got, hsv, 1e-6) {
		t.Errorf("flat correction = %v, want %v", got, hsv)
	}
	shift := FlatCurve(0.75)
	got := CorrectHSV(Pixel{0.9, 0.8, 0.5, 1}, shift, FlatCurve(1), flat)
	if want := (Pixel{0.15, 1, 0.5, 1}); !near(got, want, 1e-6) {
		t.Errorf("shifted correction = %v, want %v", got, want)
	}
}

func TestTexturePatterns(t *testing.T) {
	tex := Texture{
		Pattern: PatternBlend,
		Color1:  Pixel{0, 0, 0, 1},
		Color2:  Pixel{1, 1, 1, 1},
		Scale:   [2]float32{1, 1},
	}
	// u runs from 1 at x=0 to -1 at x=width.
	if got := tex.Eval(0, 4, 8, 8); !near(got, Pixel{1, 1, 1, 1}, 1e-6) {
		t.Errorf("blend at left edge = %v", got)
	}
	if got := tex.Eval(4, 4, 8, 8); !near(got, Pixel{0.5, 0.5, 0.5, 0.5}, 1e-6) {
		t.Errorf("blend at centre = %v", got)
	}

	// The offset shifts u before scaling: 0.5 * (0 + 0.4) = 0.2.
	tex.Scale = [2]float32{0.5, 0.5}
	tex.Offset = [2]float32{0.4, 0}
	if got := tex.Eval(4, 4, 8, 8); !near(got, Pixel{0.6, 0.6, 0.6, 0.6}, 1e-6) {
		t.Errorf("offset blend at centre = %v, want 0.6", got)
	}
	tex.Scale = [2]float32{1, 1}
	tex.Offset = [2]float32{}

	tex.Pattern = PatternChecker
	tex.Size = 0.5
	a := tex.Eval(1, 1, 8, 8)
	b := tex.Eval(3, 1, 8, 8)
	if a == b {
		t.Errorf("neighbouring checker squares are equal: %v", a)
	}

	alpha := evalAt(t, NewTextureAlphaOperation(tex), 1, 1)
	if alpha[0] != a[3] {
		t.Errorf("texture alpha = %v, want %v", alpha[0], a[3])
	}
}

func TestTransformForwardsSampler(t *testing.T) {
	buf, _ := NewMemoryBuffer(4, 1)
	buf.Write(0, 0, Pixel{0, 0, 0, 1})
	buf.Write(1, 0, Pixel{1, 1, 1, 1})
	src := &bufferExecutor{buf: buf, channel: allChannels}

	op, err := NewTransformOperation(Transform{X: 0.5, Scale: 1})
	if err != nil {
		t.Fatal(err)
	}
	e, err := op.InitExecution(NewInputs(4, 1, []Executor{src}, nil))
	if err != nil {
		t.Fatal(err)
	}
	defer e.DeinitExecution()

	var p Pixel
	e.ExecutePixel(&p, 1, 0, SamplerBilinear)
	if !near(p, Pixel{0.5, 0.5, 0.5, 1}, 1e-6) {
		t.Errorf("bilinear = %v, want half grey", p)
	}
	e.ExecutePixel(&p, 1, 0, SamplerNearest)
	if !near(p, Pixel{1, 1, 1, 1}, 1e-6) {
		t.Errorf("nearest = %v, want white", p)
	}

	if _, err := NewTransformOperation(Transform{}); !errors.Is(err, ErrInvalidProperty) {
		t.Errorf("zero scale error = %v, want ErrInvalidProperty", err)
	}
}

func TestBlurOfConstantIsConstant(t *testing.T) {
	buf, _ := NewMemoryBuffer(16, 16)
	c := Pixel{0.3, 0.6, 0.9, 1}
	buf.Fill(c)
	for _, q := range []Quality{QualityHigh, QualityMedium, QualityLow} {
		op := NewBlurOperation(4, q)
		e, err := op.InitExecution(NewInputs(16, 16, []Executor{nil}, []*MemoryBuffer{buf}))
		if err != nil {
			t.Fatal(err)
		}
		var p Pixel
		e.ExecutePixel(&p, 0, 15, SamplerBilinear)
		e.DeinitExecution()
		if !near(p, c, 1e-5) {
			t.Errorf("%v blur = %v, want %v", q, p, c)
		}
	}
}

func TestBlurAveragesDisc(t *testing.T) {
	buf, _ := NewMemoryBuffer(5, 5)
	buf.Write(2, 2, Pixel{1, 1, 1, 1})
	e, err := NewBlurOperation(1, QualityHigh).InitExecution(
		NewInputs(5, 5, []Executor{nil}, []*MemoryBuffer{buf}))
	if err != nil {
		t.Fatal(err)
	}
	defer e.DeinitExecution()

	// radius 1 covers the centre and its four neighbours.
	var p Pixel
	e.ExecutePixel(&p, 2, 2, SamplerNearest)
	if !near(p, Pixel{0.2, 0.2, 0.2, 0.2}, 1e-6) {
		t.Errorf("centre = %v, want 0.2", p)
	}
}

func TestBufferedOperationWithoutBuffersFails(t *testing.T) {
	if _, err := NewBlurOperation(2, QualityHigh).InitExecution(constInputs(t, white)); !errors.Is(err, ErrDanglingSocket) {
		t.Errorf("err = %v, want ErrDanglingSocket", err)
	}
}

// lifecycleOps returns fresh operations of every kind that can be driven
// by constant readers.
func lifecycleOps() map[string]func() Operation {
	return map[string]func() Operation{
		"set":     func() Operation { return NewSetOperation(DataTypeColor, Pixel{1, 2, 3, 4}) },
		"convert": func() Operation { return NewConvertOperation(DataTypeVector, DataTypeColor) },
		"mix":     func() Operation { return NewMixOperation(MixParams{Mode: BlendScreen, UseAlpha: true}) },
		"invert":  func() Operation { return NewInvertOperation(true, true) },
		"curve":   func() Operation { return NewColorCurveOperation(CurveMapping{Combined: FlatCurve(0.5)}) },
		"hsv":     func() Operation { return NewHSVCorrectOperation(FlatCurve(0.5), FlatCurve(0.5), FlatCurve(0.5)) },
		"texture": func() Operation { return NewTextureOperation(Texture{Scale: [2]float32{1, 1}}) },
		"combine": func() Operation { return NewCombineChannelsOperation() },
		"output":  func() Operation { return NewCompositeOperation("out", true) },
	}
}

func TestInitDeinitLeavesOperationUnchanged(t *testing.T) {
	for name, newOp := range lifecycleOps() {
		t.Run(name, func(t *testing.T) {
			op := newOp()
			n := len(op.Base().Inputs())
			vals := make([]Pixel, n)
			for i := range vals {
				vals[i] = Pixel{0.5, 0.5, 0.5, 1}
			}

			for range 2 {
				e, err := op.InitExecution(constInputs(t, vals...))
				if err != nil {
					t.Fatalf("InitExecution: %v", err)
				}
				var p Pixel
				e.ExecutePixel(&p, 1, 1, SamplerBilinear)
				e.DeinitExecution()
				e.DeinitExecution()
			}

			if !reflect.DeepEqual(op, newOp()) {
				t.Errorf("operation changed by init/deinit: %+v", op)
			}
		})
	}
}

func TestExecutePixelAfterDeinitPanics(t *testing.T) {
	for name, newOp := range lifecycleOps() {
		t.Run(name, func(t *testing.T) {
			op := newOp()
			vals := make([]Pixel, len(op.Base().Inputs()))
			e, err := op.InitExecution(constInputs(t, vals...))
			if err != nil {
				t.Fatalf("InitExecution: %v", err)
			}
			e.DeinitExecution()

			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrNotInitialized) {
					t.Errorf("recover() = %v, want ErrNotInitialized", r)
				}
			}()
			var p Pixel
			e.ExecutePixel(&p, 0, 0, SamplerNearest)
		})
	}
}

func TestConcurrentExecutePixel(t *testing.T) {
	op := NewMixOperation(MixParams{Mode: BlendOverlay})
	e, err := op.InitExecution(constInputs(t, ValuePixel(0.3), Pixel{0.2, 0.7, 0.4, 1}, Pixel{0.9, 0.1, 0.5, 1}))
	if err != nil {
		t.Fatal(err)
	}
	defer e.DeinitExecution()

	var want Pixel
	e.ExecutePixel(&want, 0, 0, SamplerBilinear)

	const goroutines = 8
	results := make(chan Pixel, goroutines*100)
	done := make(chan struct{})
	for g := range goroutines {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := range 100 {
				var p Pixel
				e.ExecutePixel(&p, float64(g), float64(i), SamplerBilinear)
				results <- p
			}
		}()
	}
	for range goroutines {
		<-done
	}
	close(results)
	for p := range results {
		if p != want {
			t.Fatalf("concurrent result %v, want %v", p, want)
		}
	}
}
