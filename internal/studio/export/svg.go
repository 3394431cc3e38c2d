package export

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"design-studio/internal/studio/geometry"
	"design-studio/internal/studio/models"
)

// ============================================================
// SVG plan export
// ============================================================

const svgMargin = 500.0 // мм вокруг плана

type SVGRenderer struct {
	icons func(typeID string) string
}

func NewSVGRenderer(icons func(string) string) *SVGRenderer {
	if icons == nil {
		icons = func(string) string { return "" }
	}
	return &SVGRenderer{icons: icons}
}

// Render собирает векторный план сцены в мировых координатах (мм).
// Сетка и выделение в SVG не попадают.
func (r *SVGRenderer) Render(scene *models.Scene) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("scene is nil")
	}

	minX, minY, width, height := r.sceneBounds(scene)

	var elements []string
	elements = append(elements, r.renderWalls(scene)...)
	elements = append(elements, r.renderOpenings(scene)...)
	elements = append(elements, r.renderRooms(scene)...)
	elements = append(elements, r.renderFurniture(scene)...)
	elements = append(elements, r.renderAnnotations(scene)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%smm" height="%smm" viewBox="%s %s %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(minX), formatFloat(minY), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

func (r *SVGRenderer) sceneBounds(scene *models.Scene) (float64, float64, float64, float64) {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	extend := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	for _, w := range scene.Walls {
		extend(w.P1.X, w.P1.Y)
		extend(w.P2.X, w.P2.Y)
	}
	for _, f := range scene.Furniture {
		extend(f.X, f.Y)
		extend(f.X+f.W, f.Y+f.H)
	}
	for _, a := range scene.Annotations {
		extend(a.X, a.Y)
	}

	if minX == math.MaxFloat64 {
		return 0, 0, 1000, 1000
	}
	return minX - svgMargin, minY - svgMargin, maxX - minX + 2*svgMargin, maxY - minY + 2*svgMargin
}

// ============================================================
// Element renderers
// ============================================================

func (r *SVGRenderer) renderWalls(scene *models.Scene) []string {
	var out []string

	for _, w := range scene.Walls {
		vec := geometry.WallVector(w)
		half := w.Thickness / 2
		points := []models.Point{
			{X: w.P1.X + vec.NX*half, Y: w.P1.Y + vec.NY*half},
			{X: w.P2.X + vec.NX*half, Y: w.P2.Y + vec.NY*half},
			{X: w.P2.X - vec.NX*half, Y: w.P2.Y - vec.NY*half},
			{X: w.P1.X - vec.NX*half, Y: w.P1.Y - vec.NY*half},
		}
		out = append(out, pathElement(w.ID, points, `fill="#37342f" stroke="#1e1c1a"`))
	}

	return out
}

// renderOpenings рисует двери и окна прямоугольниками вдоль стены.
// Проём без стены пропускается.
func (r *SVGRenderer) renderOpenings(scene *models.Scene) []string {
	var out []string

	opening := func(id, wallID string, pos, width float64, style string) {
		w, ok := scene.WallByID(wallID)
		if !ok {
			return
		}
		vec := geometry.WallVector(w)
		c := geometry.PointAt(w, geometry.ClampPos(pos))
		angle := math.Atan2(vec.DY, vec.DX) * 180 / math.Pi
		points := geometry.RectanglePoints(c.X, c.Y, width, w.Thickness, angle)
		out = append(out, pathElement(id, points, style))
	}

	for _, d := range scene.Doors {
		opening(d.ID, d.WallID, d.Pos, d.Width, `fill="#faf8f3" stroke="#d62728"`)
	}
	for _, win := range scene.Windows {
		opening(win.ID, win.WallID, win.Pos, win.Width, `fill="#cde6f5" stroke="#1f77b4"`)
	}

	return out
}

func (r *SVGRenderer) renderRooms(scene *models.Scene) []string {
	var out []string

	for _, room := range scene.Rooms {
		out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="320" text-anchor="middle" fill="#46423c">%s</text>`,
			formatFloat(room.Center.X), formatFloat(room.Center.Y), escape(room.Name)))
		out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="240" text-anchor="middle" fill="#827c72">%s</text>`,
			formatFloat(room.Center.X), formatFloat(room.Center.Y+360), escape(fmt.Sprintf("%.1f m²", room.Area))))
	}

	return out
}

func (r *SVGRenderer) renderFurniture(scene *models.Scene) []string {
	var out []string

	for _, f := range scene.Furniture {
		cx, cy := f.X+f.W/2, f.Y+f.H/2
		points := geometry.RectanglePoints(cx, cy, f.W, f.H, f.Rot)
		out = append(out, pathElement(f.ID, points, `fill="#ffffff" stroke="#786e60"`))

		label := f.Label
		if icon := r.icons(f.TypeID); icon != "" {
			label = icon + " " + label
		}
		if label != "" {
			out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="160" text-anchor="middle" dominant-baseline="middle" fill="#504a42">%s</text>`,
				formatFloat(cx), formatFloat(cy), escape(label)))
		}
	}

	return out
}

func (r *SVGRenderer) renderAnnotations(scene *models.Scene) []string {
	var out []string

	for _, a := range scene.Annotations {
		out = append(out, fmt.Sprintf(`<circle id="%s" cx="%s" cy="%s" r="150" fill="#2e7d32" />`,
			escape(a.ID), formatFloat(a.X), formatFloat(a.Y)))
		if a.Text != "" {
			out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="200" text-anchor="middle" fill="#322e2a">%s</text>`,
				formatFloat(a.X), formatFloat(a.Y-250), escape(a.Text)))
		}
	}

	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func pathElement(id string, points []models.Point, style string) string {
	var path strings.Builder
	path.WriteString(`<path id="`)
	path.WriteString(escape(id))
	path.WriteString(`" d="M `)
	path.WriteString(formatPoint(points[0]))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p))
	}
	path.WriteString(` Z" `)
	path.WriteString(style)
	path.WriteString(` />`)
	return path.String()
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(math.Round(val*100)/100, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
