// Package infer defines the named-tensor surface of the displacement model
// backend. The backend executes a fixed dataflow graph asynchronously; the
// simulation driver only ever talks to it through the Engine interface.
package infer

import "sync"

// Tensor names of the displacement model graph.
const (
	InputPositions     = "flag_input"
	InputWind          = "wind_input"
	OutputDisplacement = "displacement_output"
)

// Tensor is a named, shaped float32 buffer exchanged with the backend.
// Tensors are tick-scoped: whoever ends up owning one must Release it so the
// buffer returns to the pool.
type Tensor struct {
	Name  string
	Shape []int
	Data  []float32
}

var bufPool = sync.Pool{
	New: func() any { return []float32(nil) },
}

// NewTensor allocates a zeroed tensor of the given shape from the pool.
func NewTensor(name string, shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}

	buf := bufPool.Get().([]float32)
	if cap(buf) < n {
		buf = make([]float32, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = 0
	}

	return &Tensor{Name: name, Shape: shape, Data: buf}
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.Data)
}

// Release returns the tensor's buffer to the pool. The tensor must not be
// used afterwards.
func (t *Tensor) Release() {
	if t == nil || t.Data == nil {
		return
	}
	bufPool.Put(t.Data)
	t.Data = nil
	t.Shape = nil
}
