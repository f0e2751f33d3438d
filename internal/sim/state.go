package sim

import (
	"errors"
	"fmt"

	"github.com/Faultbox/windmesh/internal/mesh"
	"github.com/Faultbox/windmesh/pkg/vecmath"
)

// ErrVertexCountMismatch reports a mesh whose vertex count disagrees with
// the count the model was trained for. This is fatal at construction; the
// simulation never runs a tick against a mismatched mesh.
var ErrVertexCountMismatch = errors.New("mesh vertex count does not match model")

// State owns the simulation's vertex data: the live deformable copy the
// model reads and writes, and an immutable rest backup used only for reset.
// Vertex order is the mesh vertex index and never changes.
type State struct {
	working []vecmath.Vec3
	rest    []vecmath.Vec3
	host    mesh.Host
}

// NewState snapshots the host's current vertices as the rest pose and
// starts the working copy from it. numVertices is the count the model
// expects.
func NewState(host mesh.Host, numVertices int) (*State, error) {
	if host.VertexCount() != numVertices {
		return nil, fmt.Errorf("%w: mesh has %d, model expects %d",
			ErrVertexCountMismatch, host.VertexCount(), numVertices)
	}

	src := host.Vertices()
	s := &State{
		working: make([]vecmath.Vec3, len(src)),
		rest:    make([]vecmath.Vec3, len(src)),
		host:    host,
	}
	copy(s.working, src)
	copy(s.rest, src)
	return s, nil
}

// NumVertices returns the fixed vertex count.
func (s *State) NumVertices() int {
	return len(s.working)
}

// Working returns the live vertex positions. Callers must treat the slice
// as read-only; mutation goes through Integrate and Reset.
func (s *State) Working() []vecmath.Vec3 {
	return s.working
}

// Rest returns the immutable rest positions.
func (s *State) Rest() []vecmath.Vec3 {
	return s.rest
}

// Integrate adds the displacement field to the working vertices and hands
// the result to the mesh host, which recomputes surface normals.
// len(displacement) must equal NumVertices.
func (s *State) Integrate(displacement []vecmath.Vec3) {
	for i := range s.working {
		s.working[i] = s.working[i].Add(displacement[i])
	}
	s.publish()
}

// Reset copies the rest positions back into the working set, discarding all
// accumulated deformation, and notifies the host the same way Integrate
// does.
func (s *State) Reset() {
	copy(s.working, s.rest)
	s.publish()
}

func (s *State) publish() {
	s.host.SetVertices(s.working)
	s.host.RecalculateNormals()
}
