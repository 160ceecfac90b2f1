// Package hashing - audit trace construction and validation
package hashing

import (
	"regexp"
	"time"

	"part-cost/core/types"
	"part-cost/internal/errors"
)

var hexHashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// NewTraceEntry builds an audit record for one factor invocation. The input
// is hashed; the output summary is stored verbatim for human inspection.
func NewTraceEntry(factor string, input any, output map[string]any, note string) types.TraceEntry {
	return types.TraceEntry{
		At:        time.Now().UTC().Format(time.RFC3339Nano),
		Factor:    factor,
		InputHash: Hash(input),
		Output:    output,
		Note:      note,
	}
}

// ValidateTrace checks that a trace is well formed: every entry carries a
// factor code, a 64-hex input hash, an output object, and a timestamp no
// earlier than its predecessor's.
func ValidateTrace(trace []types.TraceEntry) error {
	var prev time.Time
	for i, entry := range trace {
		if entry.Factor == "" {
			return errors.Internal("trace entry missing factor code", nil).WithContext("index", i)
		}
		if !hexHashPattern.MatchString(entry.InputHash) {
			return errors.Internal("trace entry has malformed input hash", nil).WithContext("index", i)
		}
		if entry.Output == nil {
			return errors.Internal("trace entry missing output", nil).WithContext("index", i)
		}
		at, err := time.Parse(time.RFC3339Nano, entry.At)
		if err != nil {
			return errors.Internal("trace entry has malformed timestamp", err).WithContext("index", i)
		}
		if !prev.IsZero() && at.Before(prev) {
			return errors.Internal("trace entries out of order", nil).WithContext("index", i)
		}
		prev = at
	}
	return nil
}
