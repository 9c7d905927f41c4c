package config

import "fmt"

// ReadOrder selects how the session drains the offspring's stdout and stderr.
type ReadOrder string

const (
	// ReadConcurrent reads stdout and stderr at the same time. It cannot
	// deadlock on a full pipe buffer whatever order the offspring writes in.
	ReadConcurrent ReadOrder = "concurrent"

	// ReadSequential reads stdout to its first line, then stderr. An
	// offspring that fills the stderr pipe buffer before writing a line to
	// stdout blocks forever, and so does the session.
	ReadSequential ReadOrder = "sequential"
)

// ParseReadOrder maps a user-supplied name to a ReadOrder.
//
// Accepted aliases:
//   - "" and "parallel" -> "concurrent"
//   - "fixed" and "ordered" -> "sequential"
func ParseReadOrder(s string) (ReadOrder, error) {
	switch s {
	case "", "parallel", string(ReadConcurrent):
		return ReadConcurrent, nil
	case "fixed", "ordered", string(ReadSequential):
		return ReadSequential, nil
	default:
		return "", fmt.Errorf("unknown read order %q: want %q or %q", s, ReadConcurrent, ReadSequential)
	}
}
