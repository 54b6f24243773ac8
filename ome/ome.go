// Package ome models the slice of the OME-XML 2016-06 schema that CZI
// metadata maps onto: Plate, Instrument and Image elements with their
// Pixels, Channel and Plane records. The model is append-only while a
// transformation builds it and immutable once returned; serialization
// is deterministic so identical inputs produce byte-identical files.
package ome

import "encoding/xml"

// Namespace is the OME-XML 2016-06 schema namespace.
const Namespace = "http://www.openmicroscopy.org/Schemas/OME/2016-06"

const (
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = Namespace + " " + Namespace + "/ome.xsd"
)

// Document is the OME root element. Child element order follows the
// schema sequence: Plate before Instrument before Image.
type Document struct {
	XMLName        xml.Name     `xml:"OME"`
	Namespace      string       `xml:"xmlns,attr"`
	XSI            string       `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr,omitempty"`
	UUID           string       `xml:"UUID,attr,omitempty"`
	Creator        string       `xml:"Creator,attr,omitempty"`
	Plates         []Plate      `xml:"Plate"`
	Instruments    []Instrument `xml:"Instrument"`
	Images         []Image      `xml:"Image"`
}

// NewDocument returns an empty document with the schema namespace
// declarations set.
func NewDocument() *Document {
	return &Document{
		Namespace:      Namespace,
		XSI:            xsiNamespace,
		SchemaLocation: schemaLocation,
	}
}

// Plate describes a multi-well acquisition layout. Rows and Columns
// are zero when the source carried no scene-shape descriptors; zero
// values are omitted from the output.
type Plate struct {
	ID                string             `xml:"ID,attr"`
	Name              string             `xml:"Name,attr,omitempty"`
	Rows              int                `xml:"Rows,attr,omitempty"`
	Columns           int                `xml:"Columns,attr,omitempty"`
	WellOriginX       string             `xml:"WellOriginX,attr,omitempty"`
	WellOriginY       string             `xml:"WellOriginY,attr,omitempty"`
	PlateAcquisitions []PlateAcquisition `xml:"PlateAcquisition"`
}

// PlateAcquisition is one timed acquisition run over the plate.
type PlateAcquisition struct {
	ID        string `xml:"ID,attr"`
	StartTime string `xml:"StartTime,attr,omitempty"`
}

// Instrument declares acquisition hardware referenced by images.
type Instrument struct {
	ID        string     `xml:"ID,attr"`
	Detectors []Detector `xml:"Detector"`
}

// Detector is one camera or PMT declared by the instrument.
type Detector struct {
	ID    string `xml:"ID,attr"`
	Model string `xml:"Model,attr,omitempty"`
}

// Image is one scene's output record.
type Image struct {
	ID              string         `xml:"ID,attr"`
	Name            string         `xml:"Name,attr,omitempty"`
	AcquisitionDate string         `xml:"AcquisitionDate,omitempty"`
	InstrumentRef   *InstrumentRef `xml:"InstrumentRef"`
	Pixels          Pixels         `xml:"Pixels"`
}

// InstrumentRef points an image at its instrument declaration.
type InstrumentRef struct {
	ID string `xml:"ID,attr"`
}

// Pixels carries the scene's dimension geometry, pixel type and
// physical scale. Type is empty when the source pixel encoding has no
// schema equivalent; validation reports that downstream. Physical
// sizes are preformatted strings so that absent values produce no
// attribute at all.
type Pixels struct {
	ID                string        `xml:"ID,attr"`
	DimensionOrder    string        `xml:"DimensionOrder,attr"`
	Type              string        `xml:"Type,attr,omitempty"`
	SignificantBits   int           `xml:"SignificantBits,attr,omitempty"`
	SizeX             int           `xml:"SizeX,attr"`
	SizeY             int           `xml:"SizeY,attr"`
	SizeZ             int           `xml:"SizeZ,attr"`
	SizeC             int           `xml:"SizeC,attr"`
	SizeT             int           `xml:"SizeT,attr"`
	PhysicalSizeX     string        `xml:"PhysicalSizeX,attr,omitempty"`
	PhysicalSizeXUnit string        `xml:"PhysicalSizeXUnit,attr,omitempty"`
	PhysicalSizeY     string        `xml:"PhysicalSizeY,attr,omitempty"`
	PhysicalSizeYUnit string        `xml:"PhysicalSizeYUnit,attr,omitempty"`
	PhysicalSizeZ     string        `xml:"PhysicalSizeZ,attr,omitempty"`
	PhysicalSizeZUnit string        `xml:"PhysicalSizeZUnit,attr,omitempty"`
	Channels          []Channel     `xml:"Channel"`
	MetadataOnly      *MetadataOnly `xml:"MetadataOnly"`
	Planes            []Plane       `xml:"Plane"`
}

// MetadataOnly marks a Pixels record that carries no binary data
// references, which is always the case for a metadata-only transform.
type MetadataOnly struct{}

// Channel is one acquisition channel of a scene.
type Channel struct {
	ID                       string            `xml:"ID,attr"`
	Name                     string            `xml:"Name,attr,omitempty"`
	AcquisitionMode          string            `xml:"AcquisitionMode,attr,omitempty"`
	IlluminationType         string            `xml:"IlluminationType,attr,omitempty"`
	ExcitationWavelength     string            `xml:"ExcitationWavelength,attr,omitempty"`
	ExcitationWavelengthUnit string            `xml:"ExcitationWavelengthUnit,attr,omitempty"`
	EmissionWavelength       string            `xml:"EmissionWavelength,attr,omitempty"`
	EmissionWavelengthUnit   string            `xml:"EmissionWavelengthUnit,attr,omitempty"`
	Fluor                    string            `xml:"Fluor,attr,omitempty"`
	DetectorSettings         *DetectorSettings `xml:"DetectorSettings"`
}

// DetectorSettings links a channel to a declared detector.
type DetectorSettings struct {
	ID      string `xml:"ID,attr"`
	Binning string `xml:"Binning,attr,omitempty"`
}

// Plane records where one subblock sits in dimension space and, for
// tiled acquisitions, its pixel offset within the scene.
type Plane struct {
	TheZ      int    `xml:"TheZ,attr"`
	TheC      int    `xml:"TheC,attr"`
	TheT      int    `xml:"TheT,attr"`
	DeltaT    string `xml:"DeltaT,attr,omitempty"`
	PositionX string `xml:"PositionX,attr,omitempty"`
	PositionY string `xml:"PositionY,attr,omitempty"`
}
