package infer

// StaticEngine is a reference backend that predicts the same displacement
// for every vertex on every run. With a zero displacement it is the cpu
// fallback engine; tests use nonzero values to observe integration.
//
// Timing matches a device backend as the driver sees it: a result scheduled
// during one tick is first observable on a later PeekOutput, since the
// driver always polls before it dispatches.
type StaticEngine struct {
	numVertices int
	disp        [3]float32
	inputs      map[string]*Tensor
	out         *Tensor
	scheduled   int
}

// NewStaticEngine creates a static engine for a model with numVertices
// output triples.
func NewStaticEngine(numVertices int, disp [3]float32) *StaticEngine {
	return &StaticEngine{
		numVertices: numVertices,
		disp:        disp,
		inputs:      make(map[string]*Tensor),
	}
}

// SetInput stages an input tensor, replacing (and releasing) any tensor
// already staged under the same name.
func (e *StaticEngine) SetInput(name string, t *Tensor) {
	if prev, ok := e.inputs[name]; ok {
		prev.Release()
	}
	e.inputs[name] = t
}

// Schedule consumes the staged inputs and produces the displacement output.
func (e *StaticEngine) Schedule() error {
	if e.out != nil {
		return ErrResultPending
	}

	for name, t := range e.inputs {
		t.Release()
		delete(e.inputs, name)
	}

	out := NewTensor(OutputDisplacement, e.numVertices, 3)
	for i := 0; i < e.numVertices; i++ {
		out.Data[i*3] = e.disp[0]
		out.Data[i*3+1] = e.disp[1]
		out.Data[i*3+2] = e.disp[2]
	}
	e.out = out
	e.scheduled++

	return nil
}

// PeekOutput returns the pending output, transferring ownership to the
// caller. It reports false until a scheduled run has completed.
func (e *StaticEngine) PeekOutput(name string) (*Tensor, bool) {
	if name != OutputDisplacement || e.out == nil {
		return nil, false
	}
	t := e.out
	e.out = nil
	return t, true
}

// Scheduled returns how many executions have been dispatched.
func (e *StaticEngine) Scheduled() int {
	return e.scheduled
}

// Close releases any tensors the engine still retains.
func (e *StaticEngine) Close() error {
	for name, t := range e.inputs {
		t.Release()
		delete(e.inputs, name)
	}
	if e.out != nil {
		e.out.Release()
		e.out = nil
	}
	return nil
}
