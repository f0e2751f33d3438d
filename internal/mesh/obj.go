package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/windmesh/pkg/vecmath"
)

// OBJ format errors.
var (
	ErrMalformedOBJ = errors.New("malformed OBJ data")
	ErrEmptyMesh    = errors.New("OBJ contains no vertices")
)

// LoadOBJ reads a Wavefront OBJ mesh from a file. Only vertex positions and
// triangular/fan-triangulated faces are used; texture coordinates, normals
// and material statements are skipped.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing OBJ %s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ parses OBJ data from a reader.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var positions []vecmath.Vec3
	var faces [][3]int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 components", ErrMalformedOBJ, lineNo)
			}
			var p vecmath.Vec3
			for i, dst := range []*float32{&p.X, &p.Y, &p.Z} {
				v, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNo, err)
				}
				*dst = float32(v)
			}
			positions = append(positions, p)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs at least 3 vertices", ErrMalformedOBJ, lineNo)
			}
			idxs := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := parseVertexRef(ref, len(positions))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNo, err)
				}
				idxs = append(idxs, idx)
			}
			// Fan triangulation for quads and larger polygons.
			for i := 1; i+1 < len(idxs); i++ {
				faces = append(faces, [3]int{idxs[0], idxs[i], idxs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	if len(positions) == 0 {
		return nil, ErrEmptyMesh
	}

	return New(positions, faces), nil
}

// parseVertexRef resolves a face vertex reference ("7", "7/2", "7/2/5",
// "-1") to a zero-based position index.
func parseVertexRef(ref string, numPositions int) (int, error) {
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		ref = ref[:i]
	}
	idx, err := strconv.Atoi(ref)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		// Negative indices are relative to the vertices parsed so far.
		idx = numPositions + idx
	} else {
		idx-- // OBJ indices are 1-based
	}
	if idx < 0 || idx >= numPositions {
		return 0, fmt.Errorf("vertex index %s out of range", ref)
	}
	return idx, nil
}
