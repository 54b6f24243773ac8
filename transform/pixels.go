package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/omekit/czi2ome/czi"
	"github.com/omekit/czi2ome/ome"
)

// pixelTypes maps the source's semantic pixel encodings onto the
// schema's pixel type primitives. Encodings absent from the table emit
// no Type attribute at all; the downstream validator surfaces those.
var pixelTypes = map[string]string{
	"Gray8":              "uint8",
	"Bgr24":              "uint8",
	"Gray16":             "uint16",
	"Bgr48":              "uint16",
	"Gray32Float":        "float",
	"Bgr96Float":         "float",
	"Gray64Float":        "double",
	"Gray64ComplexFloat": "complex",
	"Bgr192ComplexFloat": "complex",
}

// binningValidStatus marks a hardware parameter record whose frame
// geometry is authoritative.
const binningValidStatus = "SuperValid"

// resolvePixels computes one scene's Pixels record: axis sizes, pixel
// type, significant bits and physical scale. The returned error is
// non-nil only in strict mode, when subblock extents contradict the
// resolved size.
func (p *pass) resolvePixels(sc czi.Scene) (ome.Pixels, error) {
	img := p.doc.Image()

	px := ome.Pixels{
		ID:             ome.PixelsID(sc.Index),
		DimensionOrder: "XYZCT",
	}

	px.SizeX, px.SizeY = p.resolveFrameSize(sc, img)
	px.SizeZ = sizeOrSingleton(img, "SizeZ")
	px.SizeC = sizeOrSingleton(img, "SizeC")
	px.SizeT = sizeOrSingleton(img, "SizeT")

	encoding, _ := img.ChildText("PixelType")
	if t, ok := pixelTypes[encoding]; ok {
		px.Type = t
	} else {
		p.report(newUnmappedPixelType(sc.Index, encoding))
	}

	if bits := intChild(img, "ComponentBitCount"); bits > 0 {
		px.SignificantBits = bits
	}

	px.PhysicalSizeX, px.PhysicalSizeXUnit = p.physicalSize("X")
	px.PhysicalSizeY, px.PhysicalSizeYUnit = p.physicalSize("Y")
	px.PhysicalSizeZ, px.PhysicalSizeZUnit = p.physicalSize("Z")

	if err := p.checkDimensionUniformity(sc, px.SizeX, px.SizeY); err != nil {
		return ome.Pixels{}, err
	}
	return px, nil
}

// resolveFrameSize walks the size-resolution precedence: hardware
// parameter records whose binning status is authoritative, then any
// record with a frame descriptor, then the image's own declared sizes.
func (p *pass) resolveFrameSize(sc czi.Scene, img *czi.Node) (int, int) {
	var preferred, other []*czi.Node
	for _, rec := range p.doc.ParameterCollections() {
		frame := rec.Child("ImageFrame")
		if frame == nil {
			continue
		}
		if bin := rec.Child("Binning"); bin != nil && bin.Attr("Status") == binningValidStatus {
			preferred = append(preferred, frame)
		} else {
			other = append(other, frame)
		}
	}

	for _, frame := range append(preferred, other...) {
		if w, h, ok := parseImageFrame(frame.Text); ok {
			return w, h
		}
		p.report(newMalformedImageFrame(sc.Index, frame.Text))
	}

	return intChild(img, "SizeX"), intChild(img, "SizeY")
}

// parseImageFrame splits the "x,y,w,h" tuple; fields 3 and 4 are the
// frame width and height.
func parseImageFrame(text string) (w, h int, ok bool) {
	fields := strings.Split(text, ",")
	if len(fields) < 4 {
		return 0, 0, false
	}
	w, errW := strconv.Atoi(strings.TrimSpace(fields[2]))
	h, errH := strconv.Atoi(strings.TrimSpace(fields[3]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// physicalSize converts one spatial dimension's scale from meters to
// micrometers. Zero, negative or absent scales emit nothing.
func (p *pass) physicalSize(dimension string) (value, unit string) {
	meters, ok := p.doc.ScalingDistance(dimension)
	if !ok {
		return "", ""
	}
	// Divide by 1e-6 rather than multiply by 1e6: the quotient rounds
	// to the exact micrometer value (0.0000002 m is 0.2 um, not
	// 0.19999999999999998).
	um := meters / 1e-6
	if um <= 0 {
		return "", ""
	}
	return strconv.FormatFloat(um, 'g', -1, 64), "µm"
}

// checkDimensionUniformity flags subblocks whose extent disagrees with
// the resolved scene size. The default mode keeps the output unchanged
// and records one finding per scene; strict mode fails the transform.
func (p *pass) checkDimensionUniformity(sc czi.Scene, sizeX, sizeY int) error {
	for _, sb := range p.subblocks {
		if sb.Scene != sc.Index {
			continue
		}
		if sb.Width == 0 && sb.Height == 0 {
			continue
		}
		if sb.Width != sizeX || sb.Height != sizeY {
			if p.strict {
				return fmt.Errorf("scene %d: subblock extent %dx%d, resolved size %dx%d: %w",
					sc.Index, sb.Width, sb.Height, sizeX, sizeY, ErrDimensionMismatch)
			}
			p.report(newDimensionMismatch(sc.Index, sb.Width, sb.Height, sizeX, sizeY))
			return nil
		}
	}
	return nil
}

// sizeOrSingleton reads an axis size, defaulting absent or
// non-positive values to 1 (the singleton-axis policy).
func sizeOrSingleton(img *czi.Node, tag string) int {
	if v := intChild(img, tag); v > 0 {
		return v
	}
	return 1
}

// intChild parses a child element's text as an integer, 0 when the
// child is absent or non-numeric.
func intChild(n *czi.Node, tag string) int {
	text, ok := n.ChildText(tag)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return v
}
