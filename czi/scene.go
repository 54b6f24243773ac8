package czi

import (
	"sort"
	"strconv"
)

// Scene is one logical sub-image of a multi-scene acquisition. Node is
// the backing Scene element; it is nil for the implicit scene a
// single-image document gets.
type Scene struct {
	Index int
	Name  string
	Node  *Node
}

// Scenes returns the scenes declared under Image/Dimensions/S, sorted
// ascending by their Index attribute. A scene without a parseable
// Index keeps its document position. Documents with no Scenes subtree
// return nil; callers treat those as a single implicit scene.
func (d *Document) Scenes() []Scene {
	scenes := d.Image().Descend("Dimensions", "S", "Scenes")
	if scenes == nil {
		return nil
	}
	var out []Scene
	for pos, el := range scenes.ChildrenNamed("Scene") {
		idx := pos
		if v, err := strconv.Atoi(el.Attr("Index")); err == nil {
			idx = v
		}
		out = append(out, Scene{Index: idx, Name: el.Attr("Name"), Node: el})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Shape returns the scene's Shape descriptor, or nil.
func (s Scene) Shape() *Node {
	return s.Node.Child("Shape")
}

// DisplayName composes the scene's display name from its own Name
// attribute and the Shape name when one exists, joined by "-".
// Returns "" when neither is set.
func (s Scene) DisplayName() string {
	name := s.Name
	if shape := s.Shape(); shape != nil {
		if sn := shape.Attr("Name"); sn != "" {
			if name == "" {
				name = sn
			} else {
				name = name + "-" + sn
			}
		}
	}
	return name
}

// RowColumn returns the well row/column indices from the scene's Shape
// descriptor. ok is false when either index is absent or non-numeric.
func (s Scene) RowColumn() (row, col int, ok bool) {
	shape := s.Shape()
	if shape == nil {
		return 0, 0, false
	}
	rowText, rowOK := shape.ChildText("RowIndex")
	colText, colOK := shape.ChildText("ColumnIndex")
	if !rowOK || !colOK {
		return 0, 0, false
	}
	r, errR := strconv.Atoi(rowText)
	c, errC := strconv.Atoi(colText)
	if errR != nil || errC != nil {
		return 0, 0, false
	}
	return r, c, true
}
