// Package transform rewrites parsed CZI metadata into an OME-XML
// 2016-06 document. Four rule modules cooperate over a single pass:
// the pixel-geometry resolver, the channel/detector mapper, the
// plane/tile enumerator (once per scene, ascending scene index) and
// the plate/well mapper (at most once per document). Everything the
// rules need beyond the node at hand travels in an explicit per-call
// context, so a Transformer holds no state between calls and is safe
// for concurrent use.
//
// Recoverable source defects never abort a transform: the rules emit
// degraded output and record a Diagnostic. Only a source tree without
// an image subtree, or a strict-mode dimension failure, returns an
// error.
package transform

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omekit/czi2ome/czi"
	"github.com/omekit/czi2ome/ome"
)

// Version is stamped into the produced document's Creator attribute.
const Version = "0.1.0"

var (
	// ErrNoImage reports source metadata without an Information/Image
	// subtree. No transform is meaningful without one.
	ErrNoImage = errors.New("source metadata has no Information/Image subtree")

	// ErrDimensionMismatch reports a strict-mode violation of the
	// uniform-dimensions assumption.
	ErrDimensionMismatch = errors.New("subblock dimensions disagree with resolved scene size")
)

// Transformer applies the rule modules to source documents. All
// per-call state lives in an internal pass context, so a single
// Transformer may serve concurrent calls.
type Transformer struct {
	logger  *zap.Logger
	strict  bool
	creator string
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger echoes every diagnostic to the given logger as it is
// recorded. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithStrictDimensions promotes violations of the uniform-dimensions
// assumption from warnings to transform errors.
func WithStrictDimensions(strict bool) Option {
	return func(t *Transformer) {
		t.strict = strict
	}
}

// WithCreator overrides the Creator annotation on produced documents.
func WithCreator(creator string) Option {
	return func(t *Transformer) {
		if creator != "" {
			t.creator = creator
		}
	}
}

// New returns a Transformer with the given options applied.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		logger:  zap.NewNop(),
		creator: "czi2ome " + Version,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// pass is the per-call context threaded through the rule modules: the
// source document handle, the subblock list, the output under
// construction and the diagnostic sink.
type pass struct {
	doc       *czi.Document
	subblocks []czi.Subblock
	out       *ome.Document
	diags     DiagnosticList
	logger    *zap.Logger
	strict    bool
}

func (p *pass) report(d *Diagnostic) {
	p.diags = append(p.diags, d)

	fields := []zap.Field{
		zap.String("code", string(d.Code)),
		zap.String("category", string(d.Category)),
		zap.Int("scene", d.Scene),
	}
	if d.Path != "" {
		fields = append(fields, zap.String("path", d.Path))
	}
	switch d.Severity {
	case SeverityError:
		p.logger.Error(d.Message, fields...)
	case SeverityWarning:
		p.logger.Warn(d.Message, fields...)
	default:
		p.logger.Info(d.Message, fields...)
	}
}

// Transform rewrites one source document plus its subblock descriptors
// into a target document. The returned diagnostics carry everything
// the rules found; callers decide whether warnings matter. The
// document is built fresh per call and immutable once returned.
func (t *Transformer) Transform(doc *czi.Document, subblocks []czi.Subblock) (*ome.Document, DiagnosticList, error) {
	if doc == nil || doc.Image() == nil {
		return nil, nil, ErrNoImage
	}

	p := &pass{
		doc:       doc,
		subblocks: subblocks,
		out:       ome.NewDocument(),
		logger:    t.logger,
		strict:    t.strict,
	}
	p.out.Creator = t.creator
	p.out.UUID = documentUUID(doc, subblocks)

	if plate := p.mapPlate(); plate != nil {
		p.out.Plates = append(p.out.Plates, *plate)
	}

	instrument := p.buildInstrument()
	if instrument != nil {
		p.out.Instruments = append(p.out.Instruments, *instrument)
	}

	scenes := doc.Scenes()
	if len(scenes) == 0 {
		// Single-image documents get one implicit scene built from
		// document-level fields.
		scenes = []czi.Scene{{Index: 0}}
	}
	declared := make(map[int]bool, len(scenes))
	for _, sc := range scenes {
		declared[sc.Index] = true
	}

	acquired := doc.AcquisitionDate()
	for _, sc := range scenes {
		px, err := p.resolvePixels(sc)
		if err != nil {
			return nil, p.diags, err
		}
		px.Channels = p.mapChannels(sc, px.SizeC)
		px.MetadataOnly = &ome.MetadataOnly{}
		px.Planes = p.enumeratePlanes(sc)

		img := ome.Image{
			ID:              ome.ImageID(sc.Index),
			Name:            sc.DisplayName(),
			AcquisitionDate: acquired,
			Pixels:          px,
		}
		if img.Name == "" {
			img.Name = strconv.Itoa(sc.Index)
		}
		if instrument != nil {
			img.InstrumentRef = &ome.InstrumentRef{ID: instrument.ID}
		}
		p.out.Images = append(p.out.Images, img)
	}

	p.reportOrphans(declared)

	return p.out, p.diags, nil
}

// reportOrphans flags subblocks whose scene index the document never
// declares, grouped per index in ascending order.
func (p *pass) reportOrphans(declared map[int]bool) {
	counts := make(map[int]int)
	for _, sb := range p.subblocks {
		if !declared[sb.Scene] {
			counts[sb.Scene]++
		}
	}
	if len(counts) == 0 {
		return
	}

	orphans := make([]int, 0, len(counts))
	for scene := range counts {
		orphans = append(orphans, scene)
	}
	sort.Ints(orphans)
	for _, scene := range orphans {
		p.report(newOrphanSubblocks(scene, counts[scene]))
	}
}

// documentUUID derives the root UUID from the source bytes and the
// subblock list, so transforming identical inputs twice serializes
// byte-identically.
func documentUUID(doc *czi.Document, subblocks []czi.Subblock) string {
	var name strings.Builder
	name.WriteString(doc.SourceHash())
	for _, sb := range subblocks {
		fmt.Fprintf(&name, "|%d:%d,%d,%d,%d", sb.Scene, sb.X, sb.Y, sb.Width, sb.Height)
		for _, d := range sb.Dimensions {
			fmt.Fprintf(&name, ";%s=%d", d.Dimension, d.Value)
		}
		if sb.AcquisitionTime != nil {
			name.WriteString(";" + sb.AcquisitionTime.UTC().Format(time.RFC3339Nano))
		}
	}
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name.String())).String()
}
