package transform

import (
	"encoding/json"
	"fmt"
)

// DiagnosticCode identifies one class of transform finding.
type DiagnosticCode string

// Category groups diagnostics by the rule module that produced them.
type Category string

const (
	// CategoryPixels covers pixel-geometry resolution (PIX001-099).
	CategoryPixels Category = "pixels"
	// CategoryChannels covers channel/detector mapping (CHN100-199).
	CategoryChannels Category = "channels"
	// CategoryPlanes covers plane/tile enumeration (PLN200-299).
	CategoryPlanes Category = "planes"
	// CategoryPlate covers plate/well mapping (PLT300-399).
	CategoryPlate Category = "plate"
)

// Severity indicates how a diagnostic affects the produced document.
type Severity string

const (
	// SeverityError marks findings that invalidate the output.
	SeverityError Severity = "error"
	// SeverityWarning marks degraded output the caller should review.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks notable but harmless findings.
	SeverityInfo Severity = "info"
)

// Diagnostic is one structured finding accumulated during a transform.
// The transform never aborts on a diagnostic; degraded output plus a
// diagnostic is the contract for every recoverable source defect.
// Scene is the scene ordinal, or -1 for document-level findings.
type Diagnostic struct {
	Code     DiagnosticCode `json:"code"`
	Category Category       `json:"category"`
	Severity Severity       `json:"severity"`
	Scene    int            `json:"scene"`
	Path     string         `json:"path,omitempty"`
	Message  string         `json:"message"`
}

// String returns a single-line human-readable rendering.
func (d *Diagnostic) String() string {
	if d.Scene < 0 {
		return fmt.Sprintf("%s [%s] %s", d.Code, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s [%s] scene %d: %s", d.Code, d.Severity, d.Scene, d.Message)
}

// DiagnosticList is the ordered collection of findings from one
// transform call.
type DiagnosticList []*Diagnostic

// HasErrors returns true if the list contains any error-severity
// findings (excludes warnings and info).
func (dl DiagnosticList) HasErrors() bool {
	for _, d := range dl {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if the list contains any warnings.
func (dl DiagnosticList) HasWarnings() bool {
	for _, d := range dl {
		if d.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Counts returns the number of findings by severity.
func (dl DiagnosticList) Counts() (errors, warnings, info int) {
	for _, d := range dl {
		switch d.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			info++
		}
	}
	return
}

// ToJSON returns the findings as an indented JSON array.
func (dl DiagnosticList) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(dl, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func newDiagnostic(code DiagnosticCode, category Category, severity Severity, scene int, message string) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Category: category,
		Severity: severity,
		Scene:    scene,
		Message:  message,
	}
}

// WithPath attaches the source-tree path the finding refers to.
func (d *Diagnostic) WithPath(path string) *Diagnostic {
	d.Path = path
	return d
}

// newUnmappedPixelType reports a source pixel encoding with no schema
// equivalent; the Pixels record is emitted without a Type attribute.
func newUnmappedPixelType(scene int, encoding string) *Diagnostic {
	msg := "source declares no PixelType; Type attribute omitted"
	if encoding != "" {
		msg = fmt.Sprintf("unmapped pixel encoding %q; Type attribute omitted", encoding)
	}
	return newDiagnostic("PIX001", CategoryPixels, SeverityWarning, scene, msg).
		WithPath("Metadata/Information/Image/PixelType")
}

// newMalformedImageFrame reports a hardware parameter record whose
// ImageFrame tuple could not be parsed; the record is skipped and the
// size-resolution fallback chain continues.
func newMalformedImageFrame(scene int, text string) *Diagnostic {
	return newDiagnostic("PIX002", CategoryPixels, SeverityWarning, scene,
		fmt.Sprintf("malformed ImageFrame %q, record skipped", text)).
		WithPath("Metadata//ParameterCollection/ImageFrame")
}

// newDimensionMismatch reports subblocks whose extent disagrees with
// the resolved scene size, the documented uniform-dimensions gap.
func newDimensionMismatch(scene, gotW, gotH, wantW, wantH int) *Diagnostic {
	return newDiagnostic("PIX003", CategoryPixels, SeverityWarning, scene,
		fmt.Sprintf("subblock extent %dx%d disagrees with resolved size %dx%d",
			gotW, gotH, wantW, wantH))
}

// newChannelOverflow reports more channel definitions than the
// resolved channel count; all definitions are still emitted.
func newChannelOverflow(scene, defined, sizeC int) *Diagnostic {
	return newDiagnostic("CHN101", CategoryChannels, SeverityWarning, scene,
		fmt.Sprintf("%d channel definitions exceed SizeC=%d", defined, sizeC)).
		WithPath("Metadata//Image/Dimensions/Channels")
}

// newLightSourcesDropped reports extra light-source settings on a
// channel; the schema holds one light source, the rest are dropped.
func newLightSourcesDropped(scene int, channelID string, count int) *Diagnostic {
	return newDiagnostic("CHN102", CategoryChannels, SeverityWarning, scene,
		fmt.Sprintf("channel %s has %d light-source settings; dropped", channelID, count))
}

// newOrphanSubblocks reports subblocks referencing a scene the
// document does not declare; they produce no planes.
func newOrphanSubblocks(scene, count int) *Diagnostic {
	return newDiagnostic("PLN201", CategoryPlanes, SeverityWarning, scene,
		fmt.Sprintf("%d subblocks reference undeclared scene %d, skipped", count, scene))
}

// newPlateWithoutShapes reports a plate template without any scene
// shape descriptors; Rows/Columns are omitted from the plate record.
func newPlateWithoutShapes() *Diagnostic {
	return newDiagnostic("PLT301", CategoryPlate, SeverityInfo, -1,
		"plate template present but no scene shapes found; Rows/Columns omitted").
		WithPath("Metadata/Experiment//SampleHolder/Template")
}
