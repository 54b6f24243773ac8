package transform

import (
	"github.com/omekit/czi2ome/czi"
	"github.com/omekit/czi2ome/ome"
)

// binningValues reformats the schema-legal comma pairs. Anything else,
// including an empty value, maps to Other.
var binningValues = map[string]string{
	"1,1": "1x1",
	"2,2": "2x2",
	"4,4": "4x4",
	"8,8": "8x8",
}

// channelSet selects the channel definitions for a scene: documents
// carrying one set per scene select positionally, everything else
// shares the first set.
func (p *pass) channelSet(scene int) *czi.Node {
	sets := p.doc.ChannelSets()
	if len(sets) == 0 {
		return nil
	}
	if scene >= 0 && scene < len(sets) {
		return sets[scene]
	}
	return sets[0]
}

// mapChannels emits one channel record per definition in the scene's
// channel set. All definitions are emitted even when they outnumber
// the resolved channel count; that mismatch is reported, not repaired.
func (p *pass) mapChannels(sc czi.Scene, sizeC int) []ome.Channel {
	set := p.channelSet(sc.Index)
	if set == nil {
		return nil
	}
	defs := set.ChildrenNamed("Channel")
	if len(defs) == 0 {
		return nil
	}
	if len(defs) > sizeC {
		p.report(newChannelOverflow(sc.Index, len(defs), sizeC))
	}

	channels := make([]ome.Channel, 0, len(defs))
	for n, def := range defs {
		channels = append(channels, p.mapChannel(sc, def, n))
	}
	return channels
}

func (p *pass) mapChannel(sc czi.Scene, def *czi.Node, ordinal int) ome.Channel {
	var ch ome.Channel

	if srcID := def.Attr("Id"); srcID != "" {
		ch.ID = ome.ChannelID(srcID, sc.Index)
	} else {
		ch.ID = ome.FallbackChannelID(sc.Index, ordinal)
	}
	ch.Name = def.Attr("Name")
	if ch.Name == "" {
		ch.Name = def.Attr("Id")
	}

	if mode, _ := def.ChildText("AcquisitionMode"); mode != "" {
		ch.AcquisitionMode = mode
	}
	illumination, _ := def.ChildText("IlluminationType")
	ch.IlluminationType = illumination

	if wl, _ := def.ChildText("ExcitationWavelength"); wl != "" {
		ch.ExcitationWavelength = wl
		ch.ExcitationWavelengthUnit = "nm"
	}
	if wl, _ := def.ChildText("EmissionWavelength"); wl != "" {
		ch.EmissionWavelength = wl
		ch.EmissionWavelengthUnit = "nm"
	}

	// Fluorophore names only apply to epifluorescence acquisition.
	if illumination == "Epifluorescence" {
		if fluor, _ := def.ChildText("Fluor"); fluor != "" {
			ch.Fluor = fluor
		}
	}

	ch.DetectorSettings = p.mapDetectorSettings(def)

	if sources := def.FindAll("LightSourceSettings"); len(sources) > 1 {
		p.report(newLightSourcesDropped(sc.Index, ch.ID, len(sources)))
	}
	return ch
}

// mapDetectorSettings emits the channel's detector link. A settings
// node without a detector reference produces nothing; a present
// Binning element always produces an attribute, empty text included.
func (p *pass) mapDetectorSettings(def *czi.Node) *ome.DetectorSettings {
	settings := def.Child("DetectorSettings")
	if settings == nil {
		return nil
	}
	detector := settings.Child("Detector")
	if detector == nil || detector.Attr("Id") == "" {
		return nil
	}

	ds := &ome.DetectorSettings{ID: ome.DetectorID(detector.Attr("Id"))}
	if text, ok := settings.ChildText("Binning"); ok {
		ds.Binning = mapBinning(text)
	}
	return ds
}

func mapBinning(text string) string {
	if v, ok := binningValues[text]; ok {
		return v
	}
	return "Other"
}

// buildInstrument declares the source's detectors under a single
// instrument so detector references on channels resolve downstream.
// Returns nil when the source declares none.
func (p *pass) buildInstrument() *ome.Instrument {
	src := p.doc.Instrument()
	if src == nil {
		return nil
	}
	detectors := src.FindAll("Detector")
	if len(detectors) == 0 {
		return nil
	}

	in := &ome.Instrument{ID: ome.InstrumentID(0)}
	for _, det := range detectors {
		id := det.Attr("Id")
		if id == "" {
			continue
		}
		d := ome.Detector{ID: ome.DetectorID(id)}
		if model, _ := det.ChildText("Model"); model != "" {
			d.Model = model
		} else if m := det.Descend("Manufacturer", "Model"); m != nil {
			d.Model = m.Text
		}
		in.Detectors = append(in.Detectors, d)
	}
	if len(in.Detectors) == 0 {
		return nil
	}
	return in
}
