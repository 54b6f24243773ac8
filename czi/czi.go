// Package czi models the XML metadata embedded in Zeiss CZI image
// containers. It parses the raw metadata document into an immutable
// element tree and exposes the lookups the OME transformation needs:
// the image subtree, per-scene entries, channel definitions, scaling
// distances, hardware parameter records, and the plate template.
//
// The package deliberately stops short of a general XML query engine;
// every accessor addresses a structure the CZI schema (~v1.2) is known
// to carry.
package czi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Document is a parsed CZI metadata tree. It is immutable after Parse
// and safe for concurrent readers.
type Document struct {
	root       *Node
	sourceHash string
}

// Parse decodes raw CZI metadata XML into a Document. The root element
// is normally ImageDocument with a single Metadata child, but a bare
// Metadata root (as produced by some extraction tools) is accepted too.
func Parse(data []byte) (*Document, error) {
	root, err := decodeTree(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing CZI metadata: %w", err)
	}
	sum := sha256.Sum256(data)
	return &Document{root: root, sourceHash: hex.EncodeToString(sum[:])}, nil
}

// ParseReader is Parse over a stream; the whole stream is consumed.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CZI metadata: %w", err)
	}
	return Parse(data)
}

// decodeTree builds the element tree from an XML token stream.
func decodeTree(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Tag: t.Name.Local}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element </%s>", t.Name.Local)
			}
			top := stack[len(stack)-1]
			top.Text = trimText(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unterminated element <%s>", stack[len(stack)-1].Tag)
	}
	return root, nil
}

// Root returns the document's root element.
func (d *Document) Root() *Node {
	return d.root
}

// SourceHash returns the hex SHA-256 of the raw metadata bytes. The
// transform folds it into the deterministic document UUID.
func (d *Document) SourceHash() string {
	return d.sourceHash
}

// Metadata returns the Metadata element, whether the root is
// ImageDocument or Metadata itself. Nil when neither applies.
func (d *Document) Metadata() *Node {
	if d == nil || d.root == nil {
		return nil
	}
	if d.root.Tag == "Metadata" {
		return d.root
	}
	return d.root.Child("Metadata")
}

// Image returns the Information/Image subtree, the required anchor of
// every transformation. Nil when the document does not carry one.
func (d *Document) Image() *Node {
	return d.Metadata().Descend("Information", "Image")
}

// Instrument returns the Information/Instrument subtree, or nil.
func (d *Document) Instrument() *Node {
	return d.Metadata().Descend("Information", "Instrument")
}

// Experiment returns the Experiment subtree, or nil.
func (d *Document) Experiment() *Node {
	return d.Metadata().Child("Experiment")
}

// AcquisitionDate returns the image-level acquisition timestamp text,
// or "" when the document has none.
func (d *Document) AcquisitionDate() string {
	if img := d.Image(); img != nil {
		if s, ok := img.ChildText("AcquisitionDateAndTime"); ok {
			return s
		}
	}
	return ""
}

// ScalingDistance returns the physical scale for one spatial dimension
// ("X", "Y" or "Z") in meters, as stored under Scaling/Items. The bool
// reports whether a parseable Distance entry exists for the dimension.
func (d *Document) ScalingDistance(dimension string) (float64, bool) {
	items := d.Metadata().Descend("Scaling", "Items")
	if items == nil {
		return 0, false
	}
	for _, dist := range items.ChildrenNamed("Distance") {
		if dist.Attr("Id") != dimension {
			continue
		}
		text, ok := dist.ChildText("Value")
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// ParameterCollections returns every hardware ParameterCollection
// record in the document, in document order. The caller applies the
// size-resolution precedence over them.
func (d *Document) ParameterCollections() []*Node {
	return d.Metadata().FindAll("ParameterCollection")
}

// PlateTemplate returns the sample-holder template node under the
// experiment subtree, or nil. Its presence is what switches the plate
// mapping pass on.
func (d *Document) PlateTemplate() *Node {
	exp := d.Experiment()
	if exp == nil {
		return nil
	}
	for _, holder := range exp.FindAll("SampleHolder") {
		if tpl := holder.Child("Template"); tpl != nil {
			return tpl
		}
	}
	return nil
}

// ChannelSets returns every Image/Dimensions/Channels group in the
// document, in document order. Most documents carry exactly one; when
// several exist they line up positionally with scenes.
func (d *Document) ChannelSets() []*Node {
	return d.root.findPathAll("Image", "Dimensions", "Channels")
}
