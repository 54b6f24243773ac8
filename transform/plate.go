package transform

import "github.com/omekit/czi2ome/ome"

// mapPlate reconstructs the multi-well plate record. It runs at most
// once per document and only when the experiment subtree carries a
// sample-holder template; an absent template means a non-plated
// acquisition and produces no record and no diagnostics. Row and
// column counts come from the scene shapes, a different subtree than
// the template, joined on nothing but document-wide singularity.
func (p *pass) mapPlate() *ome.Plate {
	tpl := p.doc.PlateTemplate()
	if tpl == nil {
		return nil
	}

	plate := &ome.Plate{ID: ome.PlateID(0)}
	if name := tpl.Attr("Name"); name != "" {
		plate.Name = name
	} else if text, _ := tpl.ChildText("Name"); text != "" {
		plate.Name = text
	}

	// Well origin is a verbatim unit-less pass-through.
	plate.WellOriginX, _ = tpl.ChildText("WellOriginX")
	plate.WellOriginY, _ = tpl.ChildText("WellOriginY")

	rows, cols := -1, -1
	for _, sc := range p.doc.Scenes() {
		if r, c, ok := sc.RowColumn(); ok {
			if r > rows {
				rows = r
			}
			if c > cols {
				cols = c
			}
		}
	}
	if rows >= 0 {
		plate.Rows = rows + 1
	}
	if cols >= 0 {
		plate.Columns = cols + 1
	}
	if rows < 0 && cols < 0 {
		p.report(newPlateWithoutShapes())
	}

	plate.PlateAcquisitions = p.plateAcquisitions()
	return plate
}

// plateAcquisitions emits one record per distinct acquisition start
// time in the experiment subtree, in document order, each with an
// ordinal identifier. Experiments without their own timestamps fall
// back to the image-level acquisition date.
func (p *pass) plateAcquisitions() []ome.PlateAcquisition {
	var times []string
	if exp := p.doc.Experiment(); exp != nil {
		for _, n := range exp.FindAll("AcquisitionDateAndTime") {
			if n.Text != "" {
				times = append(times, n.Text)
			}
		}
	}
	if len(times) == 0 {
		if t := p.doc.AcquisitionDate(); t != "" {
			times = []string{t}
		}
	}

	var out []ome.PlateAcquisition
	seen := make(map[string]bool, len(times))
	for _, t := range times {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, ome.PlateAcquisition{
			ID:        ome.PlateAcquisitionID(len(out)),
			StartTime: t,
		})
	}
	return out
}
