// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"encoding/json"
	"fmt"
)

type (
	// VertexRange is a closed interval [Start, End] over decoding-graph
	// vertex indices. Both ends are inclusive; Start <= End is expected
	// by convention but not validated.
	VertexRange struct {
		Start int
		End   int
	}

	// FusionPair names two partitions merged for combined decoding.
	FusionPair struct {
		Left  int
		Right int
	}

	// PartitionConfig describes how a decoding graph's vertices are split
	// into partitions and which partitions are fused back together. It is
	// decoded from the first line of a profile log and read-only afterwards.
	//
	// Decoding mirrors the wire arrays exactly: order is preserved and no
	// deduplication or bound checking is applied.
	PartitionConfig struct {
		VertexNum  int
		Partitions []VertexRange
		Fusions    []FusionPair
	}
)

// NewPartitionConfig returns a config with a single partition covering all
// vertices and no fusions.
func NewPartitionConfig(vertexNum int) *PartitionConfig {
	return &PartitionConfig{
		VertexNum:  vertexNum,
		Partitions: []VertexRange{{Start: 0, End: vertexNum}},
	}
}

// UnmarshalJSON decodes a vertex range from its wire form, a two-element
// integer array [start, end].
func (r *VertexRange) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("vertex range: expected 2 elements, got %d", len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// String renders the range in its wire form.
func (r VertexRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}

// UnmarshalJSON decodes a fusion pair from its wire form, a two-element
// integer array [left, right].
func (f *FusionPair) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("fusion pair: expected 2 elements, got %d", len(pair))
	}
	f.Left, f.Right = pair[0], pair[1]
	return nil
}

// String renders the pair in its wire form.
func (f FusionPair) String() string {
	return fmt.Sprintf("[%d, %d]", f.Left, f.Right)
}

// UnmarshalJSON decodes a partition config object. All three keys are
// required; a missing key is a structural error that propagates to the
// caller of Parse.
func (c *PartitionConfig) UnmarshalJSON(data []byte) error {
	var aux struct {
		VertexNum  *int           `json:"vertex_num"`
		Partitions *[]VertexRange `json:"partitions"`
		Fusions    *[]FusionPair  `json:"fusions"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.VertexNum == nil:
		return fmt.Errorf("partition config: missing key %q", "vertex_num")
	case aux.Partitions == nil:
		return fmt.Errorf("partition config: missing key %q", "partitions")
	case aux.Fusions == nil:
		return fmt.Errorf("partition config: missing key %q", "fusions")
	}
	c.VertexNum = *aux.VertexNum
	c.Partitions = *aux.Partitions
	c.Fusions = *aux.Fusions
	return nil
}
