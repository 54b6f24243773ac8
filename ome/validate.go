package ome

import (
	"fmt"
	"strconv"
)

// Violation is one schema-level defect found in a document. The
// transform deliberately defers some failures here (unmapped pixel
// types, dangling detector references) instead of crashing mid-pass.
type Violation struct {
	Element string `json:"element"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Element, v.Message)
}

var dimensionOrders = map[string]bool{
	"XYZCT": true, "XYZTC": true, "XYCTZ": true,
	"XYCZT": true, "XYTCZ": true, "XYTZC": true,
}

var pixelTypes = map[string]bool{
	"int8": true, "int16": true, "int32": true,
	"uint8": true, "uint16": true, "uint32": true,
	"float": true, "double": true, "complex": true,
	"double-complex": true, "bit": true,
}

var binnings = map[string]bool{
	"1x1": true, "2x2": true, "4x4": true, "8x8": true, "Other": true,
}

// Validate runs the downstream schema-shaped checks over the document
// and returns every violation found. An empty result means the
// document is structurally sound; it does not replace full XSD
// validation by a consumer.
func (d *Document) Validate() []Violation {
	v := &validator{
		ids:       make(map[string]string),
		detectors: make(map[string]bool),
	}

	for i := range d.Instruments {
		v.checkInstrument(&d.Instruments[i])
	}
	for i := range d.Plates {
		v.checkPlate(&d.Plates[i])
	}
	for i := range d.Images {
		v.checkImage(&d.Images[i])
	}
	return v.violations
}

type validator struct {
	violations []Violation
	ids        map[string]string
	detectors  map[string]bool
}

func (v *validator) add(element, format string, args ...interface{}) {
	v.violations = append(v.violations, Violation{
		Element: element,
		Message: fmt.Sprintf(format, args...),
	})
}

// registerID records an identifier and flags duplicates. kind names
// the element type for the message.
func (v *validator) registerID(kind, id string) {
	if id == "" {
		v.add(kind, "missing required ID")
		return
	}
	if prev, seen := v.ids[id]; seen {
		v.add(id, "duplicate ID, already used by %s", prev)
		return
	}
	v.ids[id] = kind
}

func (v *validator) checkInstrument(in *Instrument) {
	v.registerID("Instrument", in.ID)
	for i := range in.Detectors {
		det := &in.Detectors[i]
		v.registerID("Detector", det.ID)
		if det.ID != "" {
			v.detectors[det.ID] = true
		}
	}
}

func (v *validator) checkPlate(p *Plate) {
	v.registerID("Plate", p.ID)
	if p.Rows < 0 || p.Columns < 0 {
		v.add(p.ID, "negative Rows/Columns (%d, %d)", p.Rows, p.Columns)
	}
	for i := range p.PlateAcquisitions {
		v.registerID("PlateAcquisition", p.PlateAcquisitions[i].ID)
	}
}

func (v *validator) checkImage(img *Image) {
	v.registerID("Image", img.ID)
	if img.InstrumentRef != nil {
		if kind := v.ids[img.InstrumentRef.ID]; kind != "Instrument" {
			v.add(img.ID, "InstrumentRef %q does not resolve to an Instrument", img.InstrumentRef.ID)
		}
	}
	v.checkPixels(img.ID, &img.Pixels)
}

func (v *validator) checkPixels(imageID string, px *Pixels) {
	v.registerID("Pixels", px.ID)
	element := px.ID
	if element == "" {
		element = imageID
	}

	if !dimensionOrders[px.DimensionOrder] {
		v.add(element, "invalid DimensionOrder %q", px.DimensionOrder)
	}
	if px.Type == "" {
		v.add(element, "missing pixel Type (source encoding had no schema equivalent)")
	} else if !pixelTypes[px.Type] {
		v.add(element, "invalid pixel Type %q", px.Type)
	}

	sizes := []struct {
		name string
		val  int
	}{
		{"SizeX", px.SizeX}, {"SizeY", px.SizeY}, {"SizeZ", px.SizeZ},
		{"SizeC", px.SizeC}, {"SizeT", px.SizeT},
	}
	for _, s := range sizes {
		if s.val < 1 {
			v.add(element, "%s = %d, must be positive", s.name, s.val)
		}
	}
	if px.SignificantBits < 0 {
		v.add(element, "negative SignificantBits %d", px.SignificantBits)
	}

	v.checkPhysicalSize(element, "PhysicalSizeX", px.PhysicalSizeX, px.PhysicalSizeXUnit)
	v.checkPhysicalSize(element, "PhysicalSizeY", px.PhysicalSizeY, px.PhysicalSizeYUnit)
	v.checkPhysicalSize(element, "PhysicalSizeZ", px.PhysicalSizeZ, px.PhysicalSizeZUnit)

	if px.MetadataOnly == nil {
		v.add(element, "no data reference; metadata-only documents must carry MetadataOnly")
	}
	if len(px.Channels) > px.SizeC && px.SizeC > 0 {
		v.add(element, "%d channels exceed SizeC=%d", len(px.Channels), px.SizeC)
	}

	for i := range px.Channels {
		v.checkChannel(&px.Channels[i])
	}
	for i := range px.Planes {
		v.checkPlane(element, px, &px.Planes[i])
	}
}

func (v *validator) checkPhysicalSize(element, name, value, unit string) {
	if value == "" {
		if unit != "" {
			v.add(element, "%sUnit without %s", name, name)
		}
		return
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		v.add(element, "%s = %q, not numeric", name, value)
		return
	}
	if f <= 0 {
		v.add(element, "%s = %v, must be positive when present", name, f)
	}
	if unit == "" {
		v.add(element, "%s without %sUnit", name, name)
	}
}

func (v *validator) checkChannel(ch *Channel) {
	v.registerID("Channel", ch.ID)
	element := ch.ID
	if element == "" {
		element = "Channel"
	}
	if ds := ch.DetectorSettings; ds != nil {
		if ds.ID == "" {
			v.add(element, "DetectorSettings with empty ID")
		} else if !v.detectors[ds.ID] {
			v.add(element, "DetectorSettings %q does not resolve to a declared Detector", ds.ID)
		}
		if ds.Binning != "" && !binnings[ds.Binning] {
			v.add(element, "invalid Binning %q", ds.Binning)
		}
	}
}

func (v *validator) checkPlane(element string, px *Pixels, pl *Plane) {
	if pl.TheZ < 0 || pl.TheZ >= px.SizeZ {
		v.add(element, "Plane TheZ=%d outside [0,%d)", pl.TheZ, px.SizeZ)
	}
	if pl.TheC < 0 || pl.TheC >= px.SizeC {
		v.add(element, "Plane TheC=%d outside [0,%d)", pl.TheC, px.SizeC)
	}
	if pl.TheT < 0 || pl.TheT >= px.SizeT {
		v.add(element, "Plane TheT=%d outside [0,%d)", pl.TheT, px.SizeT)
	}
}
