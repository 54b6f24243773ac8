package czi

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// DimensionIndex is one entry of a subblock's ordered dimension-index
// tuple, e.g. {Dimension: "T", Value: 3}.
type DimensionIndex struct {
	Dimension string `json:"dimension"`
	Value     int    `json:"value"`
}

// Subblock describes one decoded tile: the scene it belongs to, its
// position in dimension space, and its pixel-region placement within
// the scene. Subblocks are produced by the binary-decoding collaborator
// and are read-only inputs here.
type Subblock struct {
	Scene           int              `json:"scene"`
	Dimensions      []DimensionIndex `json:"dimensions,omitempty"`
	X               int              `json:"x"`
	Y               int              `json:"y"`
	Width           int              `json:"width"`
	Height          int              `json:"height"`
	AcquisitionTime *time.Time       `json:"acquisition_time,omitempty"`
}

// Index returns the subblock's index along the named dimension and
// whether the tuple carries that dimension at all.
func (sb Subblock) Index(dimension string) (int, bool) {
	for _, d := range sb.Dimensions {
		if d.Dimension == dimension {
			return d.Value, true
		}
	}
	return 0, false
}

// LoadSubblocks reads a subblock descriptor dump: a JSON array of
// subblock records in acquisition order, as written by the decoding
// collaborator.
func LoadSubblocks(r io.Reader) ([]Subblock, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading subblock descriptors: %w", err)
	}
	var out []Subblock
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding subblock descriptors: %w", err)
	}
	return out, nil
}
