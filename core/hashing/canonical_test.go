package hashing

import (
	"regexp"
	"testing"
	"time"

	"part-cost/core/types"
)

var hexRe = regexp.MustCompile(`^[a-f0-9]{64}$`)

func TestHashIsStableAcrossKeyOrder(t *testing.T) {
	// Maps marshal with sorted keys in Go, so two differently-built maps
	// with the same entries must hash identically.
	a := map[string]any{"process": "CNC-MILL-3AX", "material": "aluminum_6061", "qty": 10}
	b := map[string]any{"qty": 10, "material": "aluminum_6061", "process": "CNC-MILL-3AX"}

	if Hash(a) != Hash(b) {
		t.Error("hashes differ for identical objects")
	}
}

func TestHashDiffersForDifferentValues(t *testing.T) {
	a := map[string]any{"material": "aluminum_6061"}
	b := map[string]any{"material": "titanium"}

	if Hash(a) == Hash(b) {
		t.Error("different objects must not collide")
	}
}

func TestHashFormat(t *testing.T) {
	inputs := []any{
		"a string",
		42,
		[]int{1, 2, 3},
		map[string]string{"k": "v"},
		nil,
		struct{ A, B string }{"x", "y"},
	}
	for _, in := range inputs {
		if h := Hash(in); !hexRe.MatchString(h) {
			t.Errorf("Hash(%v) = %q, not 64 lowercase hex chars", in, h)
		}
	}
}

func TestCanonicalizeSortsTopLevelKeys(t *testing.T) {
	// Struct field order differs from lexicographic order
	in := struct {
		Zeta  int    `json:"zeta"`
		Alpha string `json:"alpha"`
		Mid   bool   `json:"mid"`
	}{1, "a", true}

	got, err := Canonicalize(in)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	want := `{"alpha":"a","mid":true,"zeta":1}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestCanonicalizeLeavesNestedOrderAlone(t *testing.T) {
	// The sort is shallow: nested objects keep struct field order.
	type inner struct {
		Zed int `json:"zed"`
		Ack int `json:"ack"`
	}
	in := struct {
		B inner `json:"b"`
		A int   `json:"a"`
	}{inner{1, 2}, 3}

	got, err := Canonicalize(in)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	want := `{"a":3,"b":{"zed":1,"ack":2}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestCanonicalizeNonObjects(t *testing.T) {
	got, err := Canonicalize([]string{"b", "a"})
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if string(got) != `["b","a"]` {
		t.Errorf("arrays must pass through unsorted, got %s", got)
	}
}

func TestNewTraceEntryStampsHashAndTime(t *testing.T) {
	entry := NewTraceEntry("material",
		map[string]any{"materialCode": "aluminum_6061"},
		map[string]any{"cost": 35.0},
		"priced stock")

	if entry.Factor != "material" {
		t.Errorf("factor = %q", entry.Factor)
	}
	if !hexRe.MatchString(entry.InputHash) {
		t.Errorf("input hash %q is not 64 hex chars", entry.InputHash)
	}
	if entry.Output["cost"] != 35.0 {
		t.Errorf("output not stored verbatim: %v", entry.Output)
	}
	if entry.Note != "priced stock" {
		t.Errorf("note = %q", entry.Note)
	}
	if _, err := time.Parse(time.RFC3339Nano, entry.At); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", entry.At, err)
	}
}

func TestValidateTrace(t *testing.T) {
	valid := []types.TraceEntry{
		NewTraceEntry("material", "in1", map[string]any{}, ""),
		NewTraceEntry("machining", "in2", map[string]any{}, ""),
	}
	if err := ValidateTrace(valid); err != nil {
		t.Errorf("valid trace rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(trace []types.TraceEntry)
	}{
		{"missing factor", func(tr []types.TraceEntry) { tr[0].Factor = "" }},
		{"malformed hash", func(tr []types.TraceEntry) { tr[1].InputHash = "zzz" }},
		{"missing output", func(tr []types.TraceEntry) { tr[0].Output = nil }},
		{"malformed timestamp", func(tr []types.TraceEntry) { tr[1].At = "yesterday" }},
		{"out of order", func(tr []types.TraceEntry) {
			tr[0].At = time.Now().UTC().Add(time.Hour).Format(time.RFC3339Nano)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace := []types.TraceEntry{
				NewTraceEntry("material", "in1", map[string]any{}, ""),
				NewTraceEntry("machining", "in2", map[string]any{}, ""),
			}
			tt.mutate(trace)
			if err := ValidateTrace(trace); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
