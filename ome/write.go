package ome

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// WriteXML serializes the document with an XML declaration and
// two-space indentation. Attribute and element order follow struct
// declaration order, so output is deterministic for a given document.
func (d *Document) WriteXML(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding OME document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteXML(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes a serialized OME document back into the model, for
// standalone validation of existing files. Namespace declarations are
// not round-tripped; Parse restores the 2016-06 defaults.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing OME document: %w", err)
	}
	doc.Namespace = Namespace
	doc.XSI = xsiNamespace
	doc.SchemaLocation = schemaLocation
	return &doc, nil
}
