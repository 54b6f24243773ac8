package ome

import (
	"fmt"
	"strings"
)

// ID synthesis. All identifiers are ordinal and deterministic:
// transforming the same input twice yields the same IDs, while inputs
// that reorder scenes change them.

// ImageID returns the image identifier for a scene ordinal.
func ImageID(scene int) string {
	return fmt.Sprintf("Image:%d", scene)
}

// PixelsID returns the pixels identifier for a scene ordinal.
func PixelsID(scene int) string {
	return fmt.Sprintf("Pixels:%d", scene)
}

// ChannelID builds the channel identifier from a source channel ID and
// the scene ordinal. The "Channel:" prefix is added only when the
// source ID does not already contain it, so vendor IDs that carry the
// prefix are not double-prefixed.
func ChannelID(sourceID string, scene int) string {
	if strings.Contains(sourceID, "Channel:") {
		return fmt.Sprintf("%s:%d", sourceID, scene)
	}
	return fmt.Sprintf("Channel:%s:%d", sourceID, scene)
}

// FallbackChannelID names a channel that has no source ID at all,
// from its scene and position within the channel set.
func FallbackChannelID(scene, ordinal int) string {
	return fmt.Sprintf("Channel:%d:%d", scene, ordinal)
}

// InstrumentID returns the instrument identifier for an ordinal.
func InstrumentID(n int) string {
	return fmt.Sprintf("Instrument:%d", n)
}

// DetectorID normalizes a source detector ID: whitespace runs collapse
// to single underscores. Vendor IDs already carry the "Detector:"
// prefix, so nothing is prepended.
func DetectorID(sourceID string) string {
	return strings.Join(strings.Fields(sourceID), "_")
}

// PlateID returns the plate identifier for an ordinal. At most one
// plate exists per document, so this is always called with 0.
func PlateID(n int) string {
	return fmt.Sprintf("Plate:%d", n)
}

// PlateAcquisitionID returns the identifier for the n-th distinct
// acquisition start time.
func PlateAcquisitionID(n int) string {
	return fmt.Sprintf("PlateAcquisition:%d", n)
}
