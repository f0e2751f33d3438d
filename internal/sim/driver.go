package sim

import (
	"go.uber.org/zap"

	"github.com/Faultbox/windmesh/internal/infer"
	"github.com/Faultbox/windmesh/internal/logger"
	"github.com/Faultbox/windmesh/internal/mesh"
	"github.com/Faultbox/windmesh/internal/wind"
	"github.com/Faultbox/windmesh/pkg/vecmath"
)

// TickSink receives per-tick telemetry. Sink failures never interrupt the
// tick loop.
//
// cursor is the condition unit dispatched on this tick, while
// meanDisplacement is the result harvested on this tick, which the previous
// unit produced. The pipeline's one-tick latency shows up in the rows: a
// unit's displacement lands one row below its cursor, and the first row
// carries a zero mean.
type TickSink interface {
	RecordTick(tick, cursor int, meanDisplacement float64, reset bool) error
}

// Driver runs the pipelined inference loop. Each Tick harvests the result
// the backend produced for the previous tick, integrates it into the vertex
// state, then prepares and dispatches the next step from the updated state
// and the next wind condition.
//
// The harvest-before-dispatch ordering buys pipeline overlap for one tick
// of latency: the backend executes a step while the driver does the cheap
// CPU-side integration and tensor preparation of the same tick. Invariant:
// at most one dispatch is outstanding at any time; the driver never
// schedules again before the previous result has been harvested.
type Driver struct {
	engine infer.Engine
	state  *State
	seq    *wind.Sequence
	codec  Codec
	sink   TickSink

	cursor   int
	inFlight bool

	tick       int
	dispatches int
	harvests   int

	disp         []vecmath.Vec3 // scratch displacement field, reused across ticks
	lastDispMean float64
}

// NewDriver builds a driver over the given collaborators. The mesh host's
// vertex count must match the model's expected count and the sequence must
// hold at least one unit; either violation disables the simulation before
// any tick runs.
func NewDriver(engine infer.Engine, host mesh.Host, seq *wind.Sequence, codec Codec, numVertices int) (*Driver, error) {
	if seq.Len() == 0 {
		return nil, wind.ErrEmptySequence
	}
	state, err := NewState(host, numVertices)
	if err != nil {
		return nil, err
	}
	return &Driver{
		engine: engine,
		state:  state,
		seq:    seq,
		codec:  codec,
		disp:   make([]vecmath.Vec3, numVertices),
	}, nil
}

// SetSink attaches a telemetry sink. Pass nil to detach.
func (d *Driver) SetSink(sink TickSink) {
	d.sink = sink
}

// Tick advances the simulation by one step. Per-tick errors (malformed wind
// data, backend refusals) are logged and isolated to the tick; they never
// halt the loop and are not retried.
func (d *Driver) Tick() {
	d.tick++

	// Harvest the previous step's output. Absence is the normal case on
	// the first tick, before anything has been dispatched.
	if out, ok := d.engine.PeekOutput(infer.OutputDisplacement); ok {
		d.harvests++
		d.inFlight = false
		d.integrate(out)
		out.Release()
	}

	if d.inFlight {
		// The backend is still executing the previous step. Keep the
		// dispatch/harvest pairing intact and try again next tick; the
		// current condition unit is not consumed.
		logger.Debug("inference still in flight, skipping dispatch", zap.Int("tick", d.tick))
		return
	}

	cond, err := d.seq.At(d.cursor)
	if err != nil {
		// Recoverable: this unit's dispatch is skipped and never
		// reattempted; the backend keeps working from stale input.
		logger.Warn("skipping dispatch for malformed wind unit",
			zap.Int("cursor", d.cursor), zap.Error(err))
		d.advance()
		return
	}

	d.engine.SetInput(infer.InputPositions, d.buildPositionTensor())
	d.engine.SetInput(infer.InputWind, buildWindTensor(cond))
	if err := d.engine.Schedule(); err != nil {
		logger.Error("inference dispatch failed", zap.Int("cursor", d.cursor), zap.Error(err))
		d.advance()
		return
	}
	d.dispatches++
	d.inFlight = true

	consumed := d.cursor
	reset := d.advance()

	if d.sink != nil {
		if err := d.sink.RecordTick(d.tick, consumed, d.lastDispMean, reset); err != nil {
			logger.Warn("tick telemetry failed", zap.Error(err))
		}
	}
}

// integrate denormalizes the harvested displacement tensor and applies it
// to the vertex state.
func (d *Driver) integrate(out *infer.Tensor) {
	n := d.state.NumVertices()
	if out.Len() != n*3 {
		logger.Error("displacement tensor has wrong size",
			zap.Int("got", out.Len()), zap.Int("want", n*3))
		return
	}

	var total float64
	for i := 0; i < n; i++ {
		v := vecmath.Vec3{X: out.Data[i*3], Y: out.Data[i*3+1], Z: out.Data[i*3+2]}
		d.disp[i] = d.codec.DenormalizeDisplacement(v)
		total += float64(d.disp[i].Length())
	}
	d.lastDispMean = total / float64(n)

	d.state.Integrate(d.disp)
}

// buildPositionTensor snapshots the post-integration working vertices into
// the model's position input, normalized into model space.
func (d *Driver) buildPositionTensor() *infer.Tensor {
	working := d.state.Working()
	t := infer.NewTensor(infer.InputPositions, len(working), 3)
	for i, v := range working {
		nv := d.codec.NormalizePosition(v)
		t.Data[i*3] = nv.X
		t.Data[i*3+1] = nv.Y
		t.Data[i*3+2] = nv.Z
	}
	return t
}

// buildWindTensor reshapes a condition vector into the model's wind input:
// wind.Samples groups of 3 components.
func buildWindTensor(cond wind.ConditionVector) *infer.Tensor {
	t := infer.NewTensor(infer.InputWind, wind.Samples, 3)
	copy(t.Data, cond[:])
	return t
}

// advance moves the sequence cursor forward. On exhaustion the cursor wraps
// to zero and the vertex state is reset to the rest pose: the sequence
// plays once, resets, and plays again. Reports whether a reset occurred.
func (d *Driver) advance() bool {
	d.cursor++
	if d.cursor < d.seq.Len() {
		return false
	}

	d.cursor = 0
	d.state.Reset()
	logger.Info("wind sequence exhausted, state reset to rest pose",
		zap.Int("tick", d.tick), zap.Int("units", d.seq.Len()))
	return true
}

// Cursor returns the index of the next condition unit to be consumed.
func (d *Driver) Cursor() int {
	return d.cursor
}

// State returns the driver's simulation state.
func (d *Driver) State() *State {
	return d.state
}

// Dispatches returns the number of inference dispatches issued.
func (d *Driver) Dispatches() int {
	return d.dispatches
}

// Harvests returns the number of inference results harvested.
func (d *Driver) Harvests() int {
	return d.harvests
}

// Close tears down the inference engine and any tensors it still retains.
func (d *Driver) Close() error {
	return d.engine.Close()
}
