package calib

// Tensor4 is a real-valued 4-axis tensor with axis order
// [tx, rx, doppler, rangeSample]. Storage is row-major with the range-sample
// index fastest, matching the flat layout of the calibration files.
type Tensor4 struct {
	shape [4]int
	data  []float64
}

func newTensor4(shape [4]int, data []float64) *Tensor4 {
	return &Tensor4{shape: shape, data: data}
}

// Shape returns the tensor dimensions [tx, rx, doppler, rangeSample].
func (t *Tensor4) Shape() [4]int { return t.shape }

// At returns the element at (tx, rx, d, s).
func (t *Tensor4) At(tx, rx, d, s int) float64 {
	return t.data[t.flatIndex(tx, rx, d, s)]
}

// Values returns a copy of the flat backing data in storage order.
func (t *Tensor4) Values() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

func (t *Tensor4) flatIndex(tx, rx, d, s int) int {
	return ((tx*t.shape[1]+rx)*t.shape[2]+d)*t.shape[3] + s
}

// ComplexTensor4 is the complex-valued counterpart of Tensor4, with the same
// axis order and storage layout.
type ComplexTensor4 struct {
	shape [4]int
	data  []complex128
}

func newComplexTensor4(shape [4]int, data []complex128) *ComplexTensor4 {
	return &ComplexTensor4{shape: shape, data: data}
}

// Shape returns the tensor dimensions [tx, rx, doppler, rangeSample].
func (t *ComplexTensor4) Shape() [4]int { return t.shape }

// At returns the element at (tx, rx, d, s).
func (t *ComplexTensor4) At(tx, rx, d, s int) complex128 {
	return t.data[t.flatIndex(tx, rx, d, s)]
}

// Values returns a copy of the flat backing data in storage order.
func (t *ComplexTensor4) Values() []complex128 {
	out := make([]complex128, len(t.data))
	copy(out, t.data)
	return out
}

func (t *ComplexTensor4) flatIndex(tx, rx, d, s int) int {
	return ((tx*t.shape[1]+rx)*t.shape[2]+d)*t.shape[3] + s
}
