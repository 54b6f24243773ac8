package transform

import (
	"strconv"
	"time"

	"github.com/omekit/czi2ome/czi"
	"github.com/omekit/czi2ome/ome"
)

// enumeratePlanes emits one plane per subblock belonging to the scene,
// in input order. Dimension indices absent from a subblock's tuple
// default to 0. Positions are the subblock's pixel-region offsets,
// passed through without units; stitching them into a mosaic is the
// pixel-reading collaborator's job.
func (p *pass) enumeratePlanes(sc czi.Scene) []ome.Plane {
	earliest := p.earliestAcquisition(sc)

	var planes []ome.Plane
	for _, sb := range p.subblocks {
		if sb.Scene != sc.Index {
			continue
		}
		var pl ome.Plane
		pl.TheZ, _ = sb.Index("Z")
		pl.TheC, _ = sb.Index("C")
		pl.TheT, _ = sb.Index("T")
		pl.PositionX = strconv.Itoa(sb.X)
		pl.PositionY = strconv.Itoa(sb.Y)
		if sb.AcquisitionTime != nil && earliest != nil {
			delta := sb.AcquisitionTime.Sub(*earliest).Seconds()
			pl.DeltaT = strconv.FormatFloat(delta, 'g', -1, 64)
		}
		planes = append(planes, pl)
	}
	return planes
}

// earliestAcquisition finds the scene's first subblock timestamp,
// the zero point for per-plane DeltaT values.
func (p *pass) earliestAcquisition(sc czi.Scene) *time.Time {
	var earliest *time.Time
	for _, sb := range p.subblocks {
		if sb.Scene != sc.Index || sb.AcquisitionTime == nil {
			continue
		}
		if earliest == nil || sb.AcquisitionTime.Before(*earliest) {
			earliest = sb.AcquisitionTime
		}
	}
	return earliest
}
