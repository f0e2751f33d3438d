// Package wind handles the per-tick wind condition sequence.
package wind

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Wind condition dimensions. The model samples the wind field at Samples
// points, three components each.
const (
	Samples = 8
	Values  = Samples * 3
)

// Condition sequence errors.
var (
	ErrMalformedConditionData = errors.New("malformed wind condition data")
	ErrEmptySequence          = errors.New("wind sequence contains no units")
)

// ConditionVector is one tick's wind input: Samples groups of 3 components,
// stored flat.
type ConditionVector [Values]float32

// Sample returns the i-th 3-component wind sample.
func (c ConditionVector) Sample(i int) [3]float32 {
	return [3]float32{c[i*3], c[i*3+1], c[i*3+2]}
}

// Parse parses one condition unit: a whitespace-delimited (space, CR, LF)
// list of exactly Values decimal tokens. Empty tokens are ignored.
func Parse(rawText string) (ConditionVector, error) {
	var vec ConditionVector

	tokens := strings.Fields(rawText)
	if len(tokens) != Values {
		return vec, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedConditionData, Values, len(tokens))
	}

	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return vec, fmt.Errorf("%w: token %d %q: %v", ErrMalformedConditionData, i, tok, err)
		}
		vec[i] = float32(f)
	}

	return vec, nil
}

// Sequence is an ordered, finite list of condition units, one per simulation
// tick. It is immutable after load. Units are kept raw and parsed on access,
// so a malformed unit surfaces on the tick that consumes it and can be
// skipped without failing the whole sequence.
type Sequence struct {
	units []string
	names []string
}

// NewSequence builds a sequence from raw condition units in tick order.
func NewSequence(units []string) *Sequence {
	return &Sequence{units: units}
}

// Len returns the number of units in the sequence.
func (s *Sequence) Len() int {
	return len(s.units)
}

// At parses and returns the unit at the given cursor.
// The cursor must satisfy 0 <= cursor < Len.
func (s *Sequence) At(cursor int) (ConditionVector, error) {
	vec, err := Parse(s.units[cursor])
	if err != nil && cursor < len(s.names) {
		return vec, fmt.Errorf("%s: %w", s.names[cursor], err)
	}
	return vec, err
}

// LoadDir loads a sequence from a directory of .wind files, one unit per
// file, consumed in lexical filename order.
func LoadDir(dir string) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading wind directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".wind" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no .wind files in %s", ErrEmptySequence, dir)
	}

	seq := &Sequence{
		units: make([]string, 0, len(names)),
		names: names,
	}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading wind unit %s: %w", name, err)
		}
		seq.units = append(seq.units, string(data))
	}

	return seq, nil
}
