package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"design-studio/internal/studio/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Rects   []Rect   `xml:"rect"`
	Paths   []Path   `xml:"path"`
	Groups  []Group  `xml:"g"`
}

// Group — вложенные <g>, в которых редакторы часто прячут слои плана.
type Group struct {
	Rects  []Rect  `xml:"rect"`
	Paths  []Path  `xml:"path"`
	Groups []Group `xml:"g"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ErrInvalidNumber — NaN или ±Inf в координатах. Такой план не импортируется.
var ErrInvalidNumber = errors.New("non-finite number")

const (
	TypeWall   = "wall"
	TypeDoor   = "door"
	TypeWindow = "window"
	TypeRoom   = "room"
)

// ============================================================
// Parser
// ============================================================

// ParseSVG достаёт из документа элементы плана, распознанные по id.
// Остальные элементы игнорируются.
func ParseSVG(r io.Reader) ([]models.SVGElement, error) {
	var svg SVG
	if err := xml.NewDecoder(r).Decode(&svg); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var elements []models.SVGElement
	if err := collect(&elements, svg.Rects, svg.Paths, svg.Groups); err != nil {
		return nil, err
	}
	return elements, nil
}

func collect(out *[]models.SVGElement, rects []Rect, paths []Path, groups []Group) error {
	for _, rect := range rects {
		elemType := ClassifyElementByID(rect.ID)
		if elemType == "" {
			continue
		}
		if !finite(rect.X, rect.Y, rect.Width, rect.Height) {
			return fmt.Errorf("rect %s: %w", rect.ID, ErrInvalidNumber)
		}
		*out = append(*out, models.SVGElement{
			ID:   rect.ID,
			Type: elemType,
			Geometry: models.RectGeometry{
				X:      rect.X,
				Y:      rect.Y,
				Width:  rect.Width,
				Height: rect.Height,
			},
		})
	}

	for _, path := range paths {
		elemType := ClassifyElementByID(path.ID)
		if elemType == "" {
			continue
		}
		*out = append(*out, models.SVGElement{
			ID:       path.ID,
			Type:     elemType,
			Geometry: models.PathGeometry{D: path.D},
		})
	}

	for _, g := range groups {
		if err := collect(out, g.Rects, g.Paths, g.Groups); err != nil {
			return err
		}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ClassifyElementByID: Wall_*, Door_*, Window_*, Room_* или *_room.
func ClassifyElementByID(id string) string {
	switch {
	case strings.HasPrefix(id, "Wall_"):
		return TypeWall
	case strings.HasPrefix(id, "Door_"):
		return TypeDoor
	case strings.HasPrefix(id, "Window_"):
		return TypeWindow
	case strings.HasPrefix(id, "Room_"),
		strings.HasSuffix(id, "_room"),
		strings.HasSuffix(id, "_Room"):
		return TypeRoom
	}
	return ""
}

// RoomName выводит подпись комнаты из id: Room_Kitchen → Kitchen,
// Hall_room → Hall, подчёркивания становятся пробелами.
func RoomName(id string) string {
	name := strings.TrimPrefix(id, "Room_")
	name = strings.TrimSuffix(strings.TrimSuffix(name, "_room"), "_Room")
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return "Room"
	}
	return name
}
