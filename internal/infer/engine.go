package infer

import (
	"errors"
	"fmt"
	"os"
)

// Backend errors.
var (
	ErrResultPending  = errors.New("previous result not yet harvested")
	ErrUnknownBackend = errors.New("unknown backend preference")
)

// Engine executes the displacement model's dataflow graph. Schedule is
// non-blocking; completion is observed through PeekOutput, which never
// blocks. Input tensors handed to SetInput are retained by the engine until
// the scheduled execution consumes them; the engine releases them. An output
// tensor returned by PeekOutput is owned by the caller, who must Release it.
type Engine interface {
	// SetInput stages a named input tensor for the next Schedule.
	SetInput(name string, t *Tensor)

	// Schedule dispatches execution of the graph against the staged inputs
	// and returns immediately. It must not be called again before the
	// previous output has been harvested.
	Schedule() error

	// PeekOutput polls for a completed output tensor without blocking.
	// The second return is false while no result is ready.
	PeekOutput(name string) (*Tensor, bool)

	// Close releases the engine and any tensors it still retains.
	Close() error
}

// Model is an opaque handle to a loaded model asset.
type Model struct {
	Path        string
	NumVertices int
}

// LoadModel loads the model asset at the given path. The graph itself is
// opaque to this package; loading only verifies the asset is readable.
func LoadModel(path string, numVertices int) (*Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading model asset: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("loading model asset: %s is a directory", path)
	}
	return &Model{Path: path, NumVertices: numVertices}, nil
}

var backends = map[string]func(*Model) (Engine, error){}

// RegisterBackend makes a device engine constructor available under the
// given preference name. Later registrations replace earlier ones.
func RegisterBackend(name string, ctor func(*Model) (Engine, error)) {
	backends[name] = ctor
}

// CreateExecutionContext builds an engine for the model on the preferred
// backend. Device backends (gpu) attach through RegisterBackend; the cpu
// reference engine evaluates to a zero displacement field and exists so the
// driver can run without an attached device. "auto" picks a registered
// backend if any, the cpu reference engine otherwise.
func CreateExecutionContext(m *Model, backend string) (Engine, error) {
	if ctor, ok := backends[backend]; ok {
		return ctor(m)
	}
	switch backend {
	case "auto":
		for _, ctor := range backends {
			return ctor(m)
		}
		return NewStaticEngine(m.NumVertices, [3]float32{}), nil
	case "cpu":
		return NewStaticEngine(m.NumVertices, [3]float32{}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
