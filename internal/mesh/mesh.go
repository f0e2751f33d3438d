// Package mesh implements the deformable mesh host: a fixed-length vertex
// buffer with triangle topology and surface normal recomputation.
package mesh

import (
	"github.com/Faultbox/windmesh/pkg/vecmath"
)

// Host is the mesh surface the simulation driver writes into after each
// integration or reset. The vertex buffer has a fixed length and a fixed
// vertex ordering for the lifetime of the host.
type Host interface {
	// VertexCount returns the fixed number of vertices.
	VertexCount() int

	// Vertices returns the vertex buffer. Callers must not mutate it
	// directly; mutation goes through SetVertices.
	Vertices() []vecmath.Vec3

	// SetVertices copies the given positions into the vertex buffer.
	// len(positions) must equal VertexCount.
	SetVertices(positions []vecmath.Vec3)

	// RecalculateNormals recomputes surface normals from the current
	// vertex positions. Call after any vertex-buffer mutation.
	RecalculateNormals()
}

// Mesh is a triangle mesh. Vertex order never changes after construction;
// the simulation addresses vertices by index.
type Mesh struct {
	Positions []vecmath.Vec3
	Normals   []vecmath.Vec3
	Faces     [][3]int // vertex indices, counter-clockwise winding
}

// New creates a mesh from positions and triangle faces and computes the
// initial normals.
func New(positions []vecmath.Vec3, faces [][3]int) *Mesh {
	m := &Mesh{
		Positions: positions,
		Normals:   make([]vecmath.Vec3, len(positions)),
		Faces:     faces,
	}
	m.RecalculateNormals()
	return m
}

// VertexCount returns the fixed number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Vertices returns the vertex buffer.
func (m *Mesh) Vertices() []vecmath.Vec3 {
	return m.Positions
}

// SetVertices copies the given positions into the vertex buffer.
func (m *Mesh) SetVertices(positions []vecmath.Vec3) {
	copy(m.Positions, positions)
}

// RecalculateNormals recomputes per-vertex normals: face normals are
// accumulated at each corner, averaged across position-coincident vertices
// to avoid seams from duplicated vertices, then normalized.
func (m *Mesh) RecalculateNormals() {
	for i := range m.Normals {
		m.Normals[i] = vecmath.Vec3{}
	}

	for _, f := range m.Faces {
		v0 := m.Positions[f[0]]
		v1 := m.Positions[f[1]]
		v2 := m.Positions[f[2]]

		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if n.Length() < 1e-8 {
			// Degenerate triangle contributes nothing.
			continue
		}

		m.Normals[f[0]] = m.Normals[f[0]].Add(n)
		m.Normals[f[1]] = m.Normals[f[1]].Add(n)
		m.Normals[f[2]] = m.Normals[f[2]].Add(n)
	}

	m.smoothCoincident()

	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
}

// smoothCoincident averages accumulated normals across vertices that share
// a position, so seam vertices duplicated by the exporter shade smoothly.
func (m *Mesh) smoothCoincident() {
	const epsilon float32 = 0.001

	posMap := make(map[[3]int32][]int)
	for i, p := range m.Positions {
		key := [3]int32{
			int32(p.X / epsilon),
			int32(p.Y / epsilon),
			int32(p.Z / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum vecmath.Vec3
		for _, idx := range idxs {
			sum = sum.Add(m.Normals[idx])
		}
		for _, idx := range idxs {
			m.Normals[idx] = sum
		}
	}
}
