package calib

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTensor4Indexing(t *testing.T) {
	// 2 tx, 2 rx, 1 doppler, 3 samples; flat data iterates sample fastest,
	// then rx, then tx.
	data := []float64{
		1, 2, 3, // tx0 rx0
		4, 5, 6, // tx0 rx1
		7, 8, 9, // tx1 rx0
		10, 11, 12, // tx1 rx1
	}
	tensor := newTensor4([4]int{2, 2, 1, 3}, data)

	if got := tensor.Shape(); got != [4]int{2, 2, 1, 3} {
		t.Fatalf("Shape() = %v, want [2 2 1 3]", got)
	}
	if got := tensor.At(0, 0, 0, 0); got != 1 {
		t.Errorf("At(0,0,0,0) = %v, want 1", got)
	}
	if got := tensor.At(0, 1, 0, 2); got != 6 {
		t.Errorf("At(0,1,0,2) = %v, want 6", got)
	}
	if got := tensor.At(1, 0, 0, 1); got != 8 {
		t.Errorf("At(1,0,0,1) = %v, want 8", got)
	}
	if got := tensor.At(1, 1, 0, 2); got != 12 {
		t.Errorf("At(1,1,0,2) = %v, want 12", got)
	}
}

func TestTensor4ValuesIsACopy(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	tensor := newTensor4([4]int{2, 2, 1, 1}, data)

	values := tensor.Values()
	values[0] = 99
	if got := tensor.At(0, 0, 0, 0); got != 1 {
		t.Errorf("mutating Values() leaked into the tensor: At(0,0,0,0) = %v", got)
	}
	if diff := cmp.Diff([]float64{1, 2, 3, 4}, tensor.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestComplexTensor4Indexing(t *testing.T) {
	data := []complex128{1, 2i, -1, -2i}
	tensor := newComplexTensor4([4]int{2, 2, 1, 1}, data)

	if got := tensor.Shape(); got != [4]int{2, 2, 1, 1} {
		t.Fatalf("Shape() = %v, want [2 2 1 1]", got)
	}
	if got := tensor.At(0, 1, 0, 0); got != 2i {
		t.Errorf("At(0,1,0,0) = %v, want 2i", got)
	}
	if got := tensor.At(1, 1, 0, 0); got != -2i {
		t.Errorf("At(1,1,0,0) = %v, want -2i", got)
	}

	values := tensor.Values()
	values[0] = 99
	if got := tensor.At(0, 0, 0, 0); got != 1 {
		t.Errorf("mutating Values() leaked into the tensor: At(0,0,0,0) = %v", got)
	}
}
